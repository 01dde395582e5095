package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyMetricsSpendUniformPerDate(t *testing.T) {
	g := New(smallParams(), 42)
	result := g.DailyMetrics()
	require.NotEmpty(t, result.Rows)

	spendByDate := make(map[string]float64)
	countByDate := make(map[string]int)
	for _, row := range result.Rows {
		key := row.Date.Format("2006-01-02")
		if existing, ok := spendByDate[key]; ok {
			assert.Equal(t, existing, row.Spend,
				"spend must be identical across all rows of %s", key)
		} else {
			spendByDate[key] = row.Spend
		}
		countByDate[key] = countByDate[key] + 1
	}

	// The per-user value times the active count must reconstruct a
	// budget inside [1000, 3000], modulo the 4-decimal rounding.
	for key, spend := range spendByDate {
		assert.Equal(t, spend, result.SpendPerUser[key])
		budget := spend * float64(countByDate[key])
		slack := 0.0001 * float64(countByDate[key])
		assert.GreaterOrEqual(t, budget, 1000.0-slack, "date %s", key)
		assert.LessOrEqual(t, budget, 3000.0+slack, "date %s", key)
	}
}

func TestDailyMetricsRevenueBounds(t *testing.T) {
	g := New(smallParams(), 7)
	result := g.DailyMetrics()
	require.NotEmpty(t, result.Rows)

	zeroIAP := 0
	for _, row := range result.Rows {
		assert.GreaterOrEqual(t, row.AdRevenue, 0.001)
		assert.LessOrEqual(t, row.AdRevenue, 0.01)

		if row.IAPRevenue == 0 {
			zeroIAP++
		} else {
			assert.GreaterOrEqual(t, row.IAPRevenue, 0.5)
			assert.LessOrEqual(t, row.IAPRevenue, 10.0)
		}
	}

	// 95% of rows carry no purchase.
	zeroRate := float64(zeroIAP) / float64(len(result.Rows))
	assert.InDelta(t, 0.95, zeroRate, 0.02)
}

func TestDailyMetricsRounding(t *testing.T) {
	g := New(smallParams(), 11)
	result := g.DailyMetrics()

	for _, row := range result.Rows[:100] {
		assert.Equal(t, round(row.AdRevenue, 6), row.AdRevenue, "ad_revenue rounded to 6dp")
		assert.Equal(t, round(row.IAPRevenue, 2), row.IAPRevenue, "iap_revenue rounded to 2dp")
		assert.Equal(t, round(row.Spend, 4), row.Spend, "spend rounded to 4dp")
	}
}

// End-to-end scenario from the design sheet: 1,000 users over a single
// day should yield a binomial(1000, 0.5) row count, within plus or
// minus 50 of the expected 500.
func TestDailyMetricsActiveCountBinomial(t *testing.T) {
	p := smallParams()
	p.MetricsDays = 1
	p.MetricsUsers = 1000

	g := New(p, 42)
	result := g.DailyMetrics()

	count := float64(len(result.Rows))
	assert.LessOrEqual(t, math.Abs(count-500), 50.0,
		"active count %v outside binomial tolerance", count)
}

func TestDailyMetricsUserIDsStable(t *testing.T) {
	p := smallParams()
	p.MetricsDays = 1
	p.MetricsUsers = 50

	g := New(p, 3)
	result := g.DailyMetrics()

	valid := make(map[string]bool)
	for _, id := range UserIDs("user", 50) {
		valid[id] = true
	}
	for _, row := range result.Rows {
		assert.True(t, valid[row.UserID], "unexpected user id %s", row.UserID)
	}
}
