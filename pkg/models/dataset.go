package models

import "time"

// Table names as created in the target schema
const (
	TableDailyMetrics    = "daily_metrics"
	TableCohortRetention = "cohort_retention"
	TableCampaigns       = "campaigns"
	TableUserSegments    = "user_segments"
	TableFunnelEvents    = "funnel_events"
)

// SeedTables lists every table populated by a full seeding run,
// in the order they are written.
var SeedTables = []string{
	TableDailyMetrics,
	TableCohortRetention,
	TableCampaigns,
	TableUserSegments,
	TableFunnelEvents,
}

// DailyMetric is one active-user row in daily_metrics. Spend is
// uniform across all rows sharing a date (daily budget divided by
// that date's active-user count).
type DailyMetric struct {
	Date       time.Time
	UserID     string
	AdRevenue  float64
	IAPRevenue float64
	Spend      float64
}

// RetentionRow is one retained-user observation in cohort_retention.
type RetentionRow struct {
	CohortDate       time.Time
	DaysSinceInstall int
	UserID           string
	CohortSize       int
}

// CampaignDay is one campaign-day row in campaigns.
type CampaignDay struct {
	Date         time.Time
	CampaignID   string
	CampaignName string
	MediaSource  string
	Country      string
	Installs     int
	Spend        float64
	RevenueD7    float64
}

// UserSegment is one row in user_segments.
type UserSegment struct {
	UserID           string
	Segment          string
	LTVPredicted     float64
	ChurnProbability float64
	LastActiveDate   time.Time
	DaysSinceInstall int
}

// FunnelEvent is one user reaching a funnel step in funnel_events.
type FunnelEvent struct {
	Date      time.Time
	UserID    string
	StepName  string
	StepOrder int
}
