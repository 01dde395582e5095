// Package generator produces the synthetic analytics dataset seeded
// into the warehouse: daily metrics, cohort retention, campaign
// performance, user segments and funnel events. Values are random but
// follow fixed statistical shapes (rates and ranges), so repeated runs
// produce different rows with the same distributions. All randomness
// flows through a single seedable source so tests can pin outcomes.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"metricseed/pkg/errors"
	"metricseed/pkg/models"
)

// Params controls the size and anchor date of a generation run.
type Params struct {
	// Today anchors every date range; all windows count backward from it.
	Today time.Time

	MetricsDays  int     // daily_metrics window length
	MetricsUsers int     // daily_metrics user population
	ActiveRate   float64 // probability a (date,user) pair is active

	DailyBudgetMin float64 // per-date spend budget range
	DailyBudgetMax float64

	CampaignDays int // campaigns window length

	Cohorts           int // number of retention cohorts
	CohortSize        int // users per cohort
	CohortSpacingDays int // days between cohort install dates

	SegmentUsers int // user_segments and funnel_events population
}

// DefaultParams returns the production-sized defaults.
func DefaultParams() Params {
	return Params{
		Today:             time.Now().UTC(),
		MetricsDays:       90,
		MetricsUsers:      50000,
		ActiveRate:        0.5,
		DailyBudgetMin:    1000,
		DailyBudgetMax:    3000,
		CampaignDays:      30,
		Cohorts:           10,
		CohortSize:        10000,
		CohortSpacingDays: 10,
		SegmentUsers:      10000,
	}
}

// Validate checks that the parameters describe a generable dataset.
func (p Params) Validate() error {
	if p.MetricsDays <= 0 {
		return errors.New(errors.ErrCodeInvalidParams, "metrics days must be positive").
			WithContext("metrics_days", p.MetricsDays)
	}
	if p.MetricsUsers <= 0 {
		return errors.New(errors.ErrCodeInvalidParams, "metrics users must be positive").
			WithContext("metrics_users", p.MetricsUsers)
	}
	if p.ActiveRate < 0 || p.ActiveRate > 1 {
		return errors.New(errors.ErrCodeInvalidParams, "active rate must be within [0,1]").
			WithContext("active_rate", p.ActiveRate)
	}
	if p.DailyBudgetMin > p.DailyBudgetMax {
		return errors.New(errors.ErrCodeInvalidParams, "daily budget range is inverted").
			WithContext("min", p.DailyBudgetMin).
			WithContext("max", p.DailyBudgetMax)
	}
	if p.CampaignDays <= 0 {
		return errors.New(errors.ErrCodeInvalidParams, "campaign days must be positive").
			WithContext("campaign_days", p.CampaignDays)
	}
	if p.Cohorts <= 0 || p.CohortSize <= 0 || p.CohortSpacingDays <= 0 {
		return errors.New(errors.ErrCodeInvalidParams, "cohort settings must be positive").
			WithContext("cohorts", p.Cohorts).
			WithContext("cohort_size", p.CohortSize).
			WithContext("cohort_spacing_days", p.CohortSpacingDays)
	}
	if p.SegmentUsers <= 0 {
		return errors.New(errors.ErrCodeInvalidParams, "segment users must be positive").
			WithContext("segment_users", p.SegmentUsers)
	}
	return nil
}

// Generator produces the five seed tables from a single random source.
type Generator struct {
	params Params
	rng    *rand.Rand
	today  time.Time
}

// New creates a Generator with the given parameters and random seed.
func New(params Params, seed int64) *Generator {
	return &Generator{
		params: params,
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 - synthetic demo data
		today:  truncateToDay(params.Today),
	}
}

// Dataset bundles the full output of one generation run.
type Dataset struct {
	DailyMetrics    *DailyMetricsResult
	CohortRetention []models.RetentionRow
	Campaigns       []models.CampaignDay
	UserSegments    []models.UserSegment
	FunnelEvents    []models.FunnelEvent
}

// Dataset generates all five tables. Each table is independent except
// that daily metrics run their spend pass internally, so the order
// here only fixes the random stream.
func (g *Generator) Dataset() (*Dataset, error) {
	if err := g.params.Validate(); err != nil {
		return nil, errors.GenerationError("dataset", err)
	}

	return &Dataset{
		DailyMetrics:    g.DailyMetrics(),
		CohortRetention: g.CohortRetention(),
		Campaigns:       g.Campaigns(),
		UserSegments:    g.UserSegments(),
		FunnelEvents:    g.FunnelEvents(),
	}, nil
}

// RowCount returns the total number of rows across all tables.
func (d *Dataset) RowCount() int {
	return len(d.DailyMetrics.Rows) +
		len(d.CohortRetention) +
		len(d.Campaigns) +
		len(d.UserSegments) +
		len(d.FunnelEvents)
}

// uniform draws a continuous value from [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// uniformInt draws an integer from [lo, hi] inclusive.
func (g *Generator) uniformInt(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange returns the n dates {today-k : k in [0, n-1]} in
// chronological order. Consumers do not depend on the order.
func DateRange(today time.Time, n int) []time.Time {
	base := truncateToDay(today)
	dates := make([]time.Time, 0, n)
	for k := n - 1; k >= 0; k-- {
		dates = append(dates, base.AddDate(0, 0, -k))
	}
	return dates
}

// UserIDs returns n unique, zero-padded sequential identifiers with
// the given prefix, e.g. user_000001. The same prefix and count yield
// the same identifiers, which is what ties metrics, segments and
// funnel rows together within a run.
func UserIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s_%06d", prefix, i+1)
	}
	return ids
}
