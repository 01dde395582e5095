package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"metricseed/internal/config"
	"metricseed/internal/ui"
	"metricseed/internal/warehouse"
)

var (
	verifyDays  int
	verifyLimit int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the dashboard queries against the seeded tables",
	Long: `Connect to Snowflake and run the same aggregate queries a dashboard
would issue against the seeded tables. Prints each result so you can
confirm the data landed and the schema matches before wiring up a
dashboard.`,
	Run: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().IntVar(&verifyDays, "days", 30, "Lookback window for rollup queries")
	verifyCmd.Flags().IntVar(&verifyLimit, "limit", 10, "Max rows to print per query")
}

func runVerify(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	whConfig, err := warehouseConfig(appConfig)
	if err != nil {
		ui.ShowError(err)
		return
	}
	svc := warehouse.NewService(whConfig)

	if err := svc.Connect(); err != nil {
		ui.ShowError(err)
		return
	}
	defer svc.Close()

	ui.ShowHeader("MetricSeed - Verifying seeded data")

	checks := []struct {
		name  string
		query string
	}{
		{"Daily rollup (DAU / revenue / ROAS)", warehouse.DailyRollupQuery(verifyDays)},
		{"Campaign rollup (CPI / D7 ROAS)", warehouse.CampaignRollupQuery(verifyDays)},
		{"Segment counts", warehouse.SegmentCountsQuery()},
		{"Funnel steps", warehouse.FunnelQuery()},
	}

	if cohort, err := latestCohortDate(ctx, svc); err != nil {
		ui.ShowWarning(fmt.Sprintf("Skipping retention curve: %v", err))
	} else {
		checks = append(checks, struct {
			name  string
			query string
		}{fmt.Sprintf("Retention curve (cohort %s)", cohort), warehouse.RetentionCurveQuery(cohort)})
	}

	failed := 0
	results := make([][]string, 0, len(checks))
	for _, check := range checks {
		ui.ShowInfo(check.name)
		err := printQuery(ctx, svc, check.query, verifyLimit)
		if err != nil {
			ui.ShowError(err)
			failed++
			results = append(results, []string{check.name, ui.StatusCell(false, "FAIL")})
			continue
		}
		results = append(results, []string{check.name, ui.StatusCell(true, "PASS")})
	}

	ui.SummaryTable([]string{"Check", "Status"}, results)
	if failed > 0 {
		ui.ShowWarning(fmt.Sprintf("%d of %d checks failed", failed, len(checks)))
		return
	}
	ui.ShowSuccess(fmt.Sprintf("All %d checks passed", len(checks)))
}

func latestCohortDate(ctx context.Context, svc *warehouse.Service) (string, error) {
	rows, err := svc.Query(ctx, "SELECT TO_CHAR(MAX(cohort_date), 'YYYY-MM-DD') FROM cohort_retention")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var date sql.NullString
	if !rows.Next() {
		return "", fmt.Errorf("cohort_retention is empty")
	}
	if err := rows.Scan(&date); err != nil {
		return "", err
	}
	if !date.Valid {
		return "", fmt.Errorf("cohort_retention is empty")
	}
	return date.String, rows.Err()
}

// printQuery executes a read query and renders up to limit rows as a
// table, scanning every column as text.
func printQuery(ctx context.Context, svc *warehouse.Service, query string, limit int) error {
	rows, err := svc.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	var out [][]string
	total := 0
	for rows.Next() {
		total++
		if total > limit {
			continue
		}
		values := make([]sql.NullString, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	ui.SummaryTable(columns, out)
	if total > limit {
		ui.ShowInfo(fmt.Sprintf("(%d rows, showing first %d)", total, limit))
	}
	return nil
}
