package generator

import "metricseed/pkg/models"

// Segment names in threshold order.
const (
	SegmentWhale   = "Whale"
	SegmentDolphin = "Dolphin"
	SegmentMinnow  = "Minnow"
	SegmentFree    = "Free User"
)

const (
	ltvMin = 0.5
	ltvMax = 10.5

	lastActiveMaxDays   = 30
	daysSinceInstallMax = 365
)

// UserSegments generates the user_segments table. Segment assignment
// is independent of ltv and churn; each of the three fields uses its
// own draws.
func (g *Generator) UserSegments() []models.UserSegment {
	users := UserIDs("user", g.params.SegmentUsers)
	rows := make([]models.UserSegment, 0, len(users))

	for _, user := range users {
		rows = append(rows, models.UserSegment{
			UserID:           user,
			Segment:          g.classifySegment(),
			LTVPredicted:     round(g.uniform(ltvMin, ltvMax), 2),
			ChurnProbability: round(g.rng.Float64(), 4),
			LastActiveDate:   g.today.AddDate(0, 0, -g.rng.Intn(lastActiveMaxDays+1)),
			DaysSinceInstall: g.uniformInt(1, daysSinceInstallMax),
		})
	}

	return rows
}

// classifySegment runs the sequential threshold test. Each comparison
// draws a fresh random value, matching the chained RAND() conditions
// in the warehouse seeding script, so the effective proportions are
// 5.0% Whale, 14.25% Dolphin, 32.3% Minnow, 48.45% Free User rather
// than the nominal thresholds.
func (g *Generator) classifySegment() string {
	switch {
	case g.rng.Float64() < 0.05:
		return SegmentWhale
	case g.rng.Float64() < 0.15:
		return SegmentDolphin
	case g.rng.Float64() < 0.40:
		return SegmentMinnow
	default:
		return SegmentFree
	}
}
