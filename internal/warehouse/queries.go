package warehouse

import "fmt"

// Read queries mirroring what the dashboard runs against the seeded
// tables. The verify command executes these to prove connectivity and
// shape before anyone points a dashboard at the schema.

// DailyRollupQuery aggregates daily_metrics into the dashboard's
// DAU/revenue/ROAS series.
func DailyRollupQuery(days int) string {
	return fmt.Sprintf(`SELECT
    date,
    COUNT(DISTINCT user_id) AS dau,
    SUM(ad_revenue) AS iaa_revenue,
    SUM(iap_revenue) AS iap_revenue,
    SUM(ad_revenue + iap_revenue) AS total_revenue,
    SUM(spend) AS total_spend,
    DIV0(SUM(ad_revenue + iap_revenue), SUM(spend)) AS roas
FROM daily_metrics
WHERE date >= DATEADD(day, -%d, CURRENT_DATE())
GROUP BY date
ORDER BY date`, days)
}

// RetentionCurveQuery computes the observed retention curve for a
// single cohort.
func RetentionCurveQuery(cohortDate string) string {
	return fmt.Sprintf(`SELECT
    days_since_install,
    COUNT(DISTINCT user_id) AS active_users,
    DIV0(COUNT(DISTINCT user_id), MAX(cohort_size)) AS retention_rate
FROM cohort_retention
WHERE cohort_date = '%s'
GROUP BY days_since_install
ORDER BY days_since_install`, cohortDate)
}

// CampaignRollupQuery aggregates campaigns by campaign with derived
// CPI and D7 ROAS.
func CampaignRollupQuery(days int) string {
	return fmt.Sprintf(`SELECT
    campaign_id,
    campaign_name,
    media_source,
    country,
    SUM(installs) AS installs,
    SUM(spend) AS spend,
    DIV0(SUM(spend), SUM(installs)) AS cpi,
    SUM(revenue_d7) AS revenue_d7,
    DIV0(SUM(revenue_d7), SUM(spend)) AS roas_d7
FROM campaigns
WHERE date >= DATEADD(day, -%d, CURRENT_DATE())
GROUP BY campaign_id, campaign_name, media_source, country
ORDER BY spend DESC`, days)
}

// SegmentCountsQuery summarizes user_segments per segment.
func SegmentCountsQuery() string {
	return `SELECT
    segment,
    COUNT(*) AS users,
    AVG(ltv_predicted) AS avg_ltv,
    AVG(churn_probability) AS avg_churn
FROM user_segments
WHERE segment IS NOT NULL
GROUP BY segment
ORDER BY users DESC`
}

// FunnelQuery returns per-step user counts with the previous step's
// count alongside, for conversion-rate math.
func FunnelQuery() string {
	return `SELECT
    step_name,
    step_order,
    COUNT(DISTINCT user_id) AS users,
    LAG(COUNT(DISTINCT user_id)) OVER (ORDER BY step_order) AS prev_users
FROM funnel_events
GROUP BY step_name, step_order
ORDER BY step_order`
}
