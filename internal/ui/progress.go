package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressBar tracks statement execution while a table is seeded.
type ProgressBar struct {
	total     int
	current   int
	label     string
	startTime time.Time
	mu        sync.Mutex
}

// NewProgressBar creates a new progress bar
func NewProgressBar(label string, total int) *ProgressBar {
	return &ProgressBar{
		label:     label,
		total:     total,
		startTime: time.Now(),
	}
}

// Update updates the progress bar with current status
func (p *ProgressBar) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.render()
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Printf("\r\033[K%s %s seeded in %s\n",
		ColorSuccess("✓"),
		p.label,
		formatDuration(time.Since(p.startTime)),
	)
}

func (p *ProgressBar) render() {
	// Clear line
	fmt.Print("\r\033[K")

	percentage := float64(p.current) / float64(p.total) * 100

	barWidth := 30
	filled := int(percentage / 100 * float64(barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Printf("%s [%s] %3.0f%% (%d/%d statements)",
		p.label, ColorProgress(bar), percentage, p.current, p.total)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
