package warehouse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"metricseed/internal/generator"
	"metricseed/pkg/models"
)

// Table DDL. CREATE OR REPLACE gives the full-table reset that makes a
// rerun start from scratch.
const (
	ddlDailyMetrics = `CREATE OR REPLACE TABLE daily_metrics (
    date DATE,
    user_id VARCHAR,
    ad_revenue FLOAT,
    iap_revenue FLOAT,
    spend FLOAT
)`

	ddlCohortRetention = `CREATE OR REPLACE TABLE cohort_retention (
    cohort_date DATE,
    days_since_install INTEGER,
    user_id VARCHAR,
    cohort_size INTEGER
)`

	ddlCampaigns = `CREATE OR REPLACE TABLE campaigns (
    date DATE,
    campaign_id VARCHAR,
    campaign_name VARCHAR,
    media_source VARCHAR,
    country VARCHAR,
    installs INTEGER,
    spend FLOAT,
    revenue_d7 FLOAT
)`

	ddlUserSegments = `CREATE OR REPLACE TABLE user_segments (
    user_id VARCHAR,
    segment VARCHAR,
    ltv_predicted FLOAT,
    churn_probability FLOAT,
    last_active_date DATE,
    days_since_install INTEGER
)`

	ddlFunnelEvents = `CREATE OR REPLACE TABLE funnel_events (
    date DATE,
    user_id VARCHAR,
    step_name VARCHAR,
    step_order INTEGER
)`
)

func tableDDL(table string) string {
	switch table {
	case models.TableDailyMetrics:
		return ddlDailyMetrics
	case models.TableCohortRetention:
		return ddlCohortRetention
	case models.TableCampaigns:
		return ddlCampaigns
	case models.TableUserSegments:
		return ddlUserSegments
	case models.TableFunnelEvents:
		return ddlFunnelEvents
	default:
		return ""
	}
}

func sqlDate(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// batchInserts renders rows into chunked multi-row INSERT statements.
func batchInserts(table, columns string, values []string, batchSize int) []string {
	if batchSize <= 0 {
		batchSize = 1000
	}

	var stmts []string
	for start := 0; start < len(values); start += batchSize {
		end := start + batchSize
		if end > len(values) {
			end = len(values)
		}
		stmts = append(stmts, fmt.Sprintf("INSERT INTO %s (%s) VALUES\n%s",
			table, columns, strings.Join(values[start:end], ",\n")))
	}
	return stmts
}

// dailyMetricInserts renders phase-one rows: revenue assigned, spend
// left at zero for the normalization pass to fill in.
func dailyMetricInserts(rows []models.DailyMetric, batchSize int) []string {
	values := make([]string, len(rows))
	for i, r := range rows {
		values[i] = fmt.Sprintf("(%s, %s, %s, %s, 0)",
			sqlDate(r.Date), sqlString(r.UserID),
			sqlFloat(r.AdRevenue), sqlFloat(r.IAPRevenue))
	}
	return batchInserts(models.TableDailyMetrics,
		"date, user_id, ad_revenue, iap_revenue, spend", values, batchSize)
}

// spendUpdates renders the per-date second pass over daily_metrics.
// ISO date keys sort chronologically.
func spendUpdates(result *generator.DailyMetricsResult) []string {
	keys := make([]string, 0, len(result.SpendPerUser))
	for key := range result.SpendPerUser {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	stmts := make([]string, 0, len(keys))
	for _, key := range keys {
		stmts = append(stmts, fmt.Sprintf(
			"UPDATE %s SET spend = %s WHERE date = '%s'",
			models.TableDailyMetrics, sqlFloat(result.SpendPerUser[key]), key))
	}
	return stmts
}

func retentionInserts(rows []models.RetentionRow, batchSize int) []string {
	values := make([]string, len(rows))
	for i, r := range rows {
		values[i] = fmt.Sprintf("(%s, %d, %s, %d)",
			sqlDate(r.CohortDate), r.DaysSinceInstall,
			sqlString(r.UserID), r.CohortSize)
	}
	return batchInserts(models.TableCohortRetention,
		"cohort_date, days_since_install, user_id, cohort_size", values, batchSize)
}

func campaignInserts(rows []models.CampaignDay, batchSize int) []string {
	values := make([]string, len(rows))
	for i, r := range rows {
		values[i] = fmt.Sprintf("(%s, %s, %s, %s, %s, %d, %s, %s)",
			sqlDate(r.Date), sqlString(r.CampaignID), sqlString(r.CampaignName),
			sqlString(r.MediaSource), sqlString(r.Country),
			r.Installs, sqlFloat(r.Spend), sqlFloat(r.RevenueD7))
	}
	return batchInserts(models.TableCampaigns,
		"date, campaign_id, campaign_name, media_source, country, installs, spend, revenue_d7",
		values, batchSize)
}

func segmentInserts(rows []models.UserSegment, batchSize int) []string {
	values := make([]string, len(rows))
	for i, r := range rows {
		values[i] = fmt.Sprintf("(%s, %s, %s, %s, %s, %d)",
			sqlString(r.UserID), sqlString(r.Segment),
			sqlFloat(r.LTVPredicted), sqlFloat(r.ChurnProbability),
			sqlDate(r.LastActiveDate), r.DaysSinceInstall)
	}
	return batchInserts(models.TableUserSegments,
		"user_id, segment, ltv_predicted, churn_probability, last_active_date, days_since_install",
		values, batchSize)
}

func funnelInserts(rows []models.FunnelEvent, batchSize int) []string {
	values := make([]string, len(rows))
	for i, r := range rows {
		values[i] = fmt.Sprintf("(%s, %s, %s, %d)",
			sqlDate(r.Date), sqlString(r.UserID),
			sqlString(r.StepName), r.StepOrder)
	}
	return batchInserts(models.TableFunnelEvents,
		"date, user_id, step_name, step_order", values, batchSize)
}
