package generator

import (
	"time"

	"metricseed/pkg/models"
)

// Revenue bounds for daily metric rows.
const (
	adRevenueMin = 0.001
	adRevenueMax = 0.01

	iapPurchaseRate = 0.05
	iapRevenueMin   = 0.5
	iapRevenueMax   = 10.0
)

// DailyMetricsResult carries the materialized rows plus the per-date
// spend values written during the normalization pass, so the seeder
// can replay the same two phases as SQL (insert, then update by date).
type DailyMetricsResult struct {
	Rows []models.DailyMetric
	// SpendPerUser maps an ISO date to the uniform per-user spend
	// applied to every row on that date.
	SpendPerUser map[string]float64
}

// DailyMetrics generates the daily_metrics table in two explicit
// phases. Phase one samples the active set over the dates×users cross
// product and assigns revenue, leaving spend at zero. Phase two draws
// one budget per date and writes budget/activeCount into every row of
// that date. The split matters: spend cannot be known until all of a
// date's rows exist.
func (g *Generator) DailyMetrics() *DailyMetricsResult {
	dates := DateRange(g.today, g.params.MetricsDays)
	users := UserIDs("user", g.params.MetricsUsers)

	result := &DailyMetricsResult{
		SpendPerUser: make(map[string]float64, len(dates)),
	}

	// Phase 1: materialize active rows with revenue.
	rowsByDate := make(map[string][]int, len(dates))
	for _, date := range dates {
		key := date.Format("2006-01-02")
		for _, user := range users {
			if g.rng.Float64() >= g.params.ActiveRate {
				continue
			}
			result.Rows = append(result.Rows, models.DailyMetric{
				Date:       date,
				UserID:     user,
				AdRevenue:  round(g.uniform(adRevenueMin, adRevenueMax), 6),
				IAPRevenue: g.iapRevenue(),
			})
			rowsByDate[key] = append(rowsByDate[key], len(result.Rows)-1)
		}
	}

	// Phase 2: spend normalization, update-in-place keyed by date.
	for _, date := range dates {
		key := date.Format("2006-01-02")
		indexes := rowsByDate[key]
		if len(indexes) == 0 {
			continue
		}
		budget := g.uniform(g.params.DailyBudgetMin, g.params.DailyBudgetMax)
		perUser := round(budget/float64(len(indexes)), 4)
		for _, i := range indexes {
			result.Rows[i].Spend = perUser
		}
		result.SpendPerUser[key] = perUser
	}

	return result
}

func (g *Generator) iapRevenue() float64 {
	if g.rng.Float64() < iapPurchaseRate {
		return round(g.uniform(iapRevenueMin, iapRevenueMax), 2)
	}
	return 0
}

// ActiveDates returns the metric dates of the run in chronological
// order, matching the keys of SpendPerUser.
func (g *Generator) ActiveDates() []time.Time {
	return DateRange(g.today, g.params.MetricsDays)
}
