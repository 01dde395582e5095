package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSegmentsFieldBounds(t *testing.T) {
	p := smallParams()
	g := New(p, 31)
	rows := g.UserSegments()
	require.Len(t, rows, 2000)

	for _, row := range rows {
		assert.Contains(t,
			[]string{SegmentWhale, SegmentDolphin, SegmentMinnow, SegmentFree},
			row.Segment)

		assert.GreaterOrEqual(t, row.LTVPredicted, 0.5)
		assert.LessOrEqual(t, row.LTVPredicted, 10.5)
		assert.Equal(t, round(row.LTVPredicted, 2), row.LTVPredicted)

		assert.GreaterOrEqual(t, row.ChurnProbability, 0.0)
		assert.LessOrEqual(t, row.ChurnProbability, 1.0)
		assert.Equal(t, round(row.ChurnProbability, 4), row.ChurnProbability)

		assert.GreaterOrEqual(t, row.DaysSinceInstall, 1)
		assert.LessOrEqual(t, row.DaysSinceInstall, 365)

		daysAgo := int(g.today.Sub(row.LastActiveDate).Hours() / 24)
		assert.GreaterOrEqual(t, daysAgo, 0)
		assert.LessOrEqual(t, daysAgo, 30)
	}
}

// The classifier re-rolls a fresh draw per threshold test, matching
// the chained RAND() conditions in the seeding SQL. That makes the
// effective proportions Whale 5%, Dolphin 14.25%, Minnow 32.3%,
// Free User 48.45% - not the nominal 5/15/40 thresholds. This test
// pins that behavior.
func TestUserSegmentsRerolledProportions(t *testing.T) {
	p := smallParams()
	p.SegmentUsers = 10000

	g := New(p, 32)
	rows := g.UserSegments()
	require.Len(t, rows, 10000)

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Segment]++
	}

	n := float64(len(rows))
	assert.InDelta(t, 0.05, float64(counts[SegmentWhale])/n, 0.010)
	assert.InDelta(t, 0.1425, float64(counts[SegmentDolphin])/n, 0.015)
	assert.InDelta(t, 0.3230, float64(counts[SegmentMinnow])/n, 0.020)
	assert.InDelta(t, 0.4845, float64(counts[SegmentFree])/n, 0.020)
}

func TestUserSegmentsIndependentOfLTV(t *testing.T) {
	p := smallParams()
	p.SegmentUsers = 5000

	g := New(p, 33)
	rows := g.UserSegments()

	// Segment is drawn independently of ltv, so whales must not be
	// systematically high-ltv. Compare whale mean ltv to the overall
	// mean: both should sit near the midpoint of [0.5, 10.5].
	var whaleSum float64
	var whaleN int
	var totalSum float64
	for _, row := range rows {
		totalSum += row.LTVPredicted
		if row.Segment == SegmentWhale {
			whaleSum += row.LTVPredicted
			whaleN++
		}
	}

	require.NotZero(t, whaleN)
	assert.InDelta(t, 5.5, totalSum/float64(len(rows)), 0.3)
	assert.InDelta(t, 5.5, whaleSum/float64(whaleN), 0.8)
}
