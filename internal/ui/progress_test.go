package ui

import (
	"os"
	"testing"
	"time"
)

func TestNewProgressBar(t *testing.T) {
	pb := NewProgressBar("daily_metrics", 50)

	if pb.label != "daily_metrics" {
		t.Errorf("Expected label to be daily_metrics, got %s", pb.label)
	}

	if pb.total != 50 {
		t.Errorf("Expected total to be 50, got %d", pb.total)
	}

	if pb.current != 0 {
		t.Errorf("Expected current to be 0, got %d", pb.current)
	}

	// Verify start time is set
	if pb.startTime.IsZero() {
		t.Error("Expected startTime to be set")
	}
}

func TestProgressBar_Update(t *testing.T) {
	pb := NewProgressBar("campaigns", 10)

	// Capture output
	oldStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w

	pb.Update(5)
	if pb.current != 5 {
		t.Errorf("Expected current to be 5, got %d", pb.current)
	}

	pb.Update(10)
	if pb.current != 10 {
		t.Errorf("Expected current to be 10, got %d", pb.current)
	}

	pb.Finish()

	w.Close()
	os.Stdout = oldStdout
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}
