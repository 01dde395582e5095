package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"metricseed/internal/config"
	"metricseed/internal/generator"
	"metricseed/internal/ui"
	"metricseed/pkg/models"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate the dataset in memory and summarize it",
	Long: `Generate the full dataset without touching the warehouse and print a
summary of what a seed run would load: row counts per table, the date
windows covered, and a few distribution checks (segment mix, funnel
reach). Useful for sanity-checking parameters before seeding.`,
	Run: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVar(&seedDays, "days", 0, "Days of daily metrics history (default 90)")
	previewCmd.Flags().IntVar(&seedUsers, "users", 0, "User population for daily metrics (default 50000)")
	previewCmd.Flags().Int64Var(&seedRandom, "seed", 0, "Random seed (default: current time)")
}

func runPreview(cmd *cobra.Command, args []string) {
	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	params, seed, _ := resolveGeneration(appConfig)

	ds, err := generator.New(params, seed).Dataset()
	if err != nil {
		ui.ShowError(err)
		return
	}

	ui.ShowHeader("MetricSeed - Dataset preview")
	ui.ShowInfo(fmt.Sprintf("Random seed: %d", seed))

	ui.SummaryTable([]string{"Table", "Rows", "Window"}, [][]string{
		{models.TableDailyMetrics, strconv.Itoa(len(ds.DailyMetrics.Rows)),
			fmt.Sprintf("last %d days, %d users", params.MetricsDays, params.MetricsUsers)},
		{models.TableCohortRetention, strconv.Itoa(len(ds.CohortRetention)),
			fmt.Sprintf("%d cohorts of %d, %d days apart", params.Cohorts, params.CohortSize, params.CohortSpacingDays)},
		{models.TableCampaigns, strconv.Itoa(len(ds.Campaigns)),
			fmt.Sprintf("last %d days", params.CampaignDays)},
		{models.TableUserSegments, strconv.Itoa(len(ds.UserSegments)),
			fmt.Sprintf("%d users", params.SegmentUsers)},
		{models.TableFunnelEvents, strconv.Itoa(len(ds.FunnelEvents)), "today"},
	})

	showSegmentMix(ds)
	showFunnelReach(ds, params.SegmentUsers)

	ui.ShowInfo(fmt.Sprintf("Total: %d rows. Run 'metricseed seed' to load them.", ds.RowCount()))
}

func showSegmentMix(ds *generator.Dataset) {
	counts := map[string]int{}
	for _, s := range ds.UserSegments {
		counts[s.Segment]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return counts[names[i]] > counts[names[j]] })

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		share := float64(counts[name]) / float64(len(ds.UserSegments)) * 100
		rows = append(rows, []string{name, strconv.Itoa(counts[name]), fmt.Sprintf("%.1f%%", share)})
	}
	ui.SummaryTable([]string{"Segment", "Users", "Share"}, rows)
}

func showFunnelReach(ds *generator.Dataset, population int) {
	counts := map[int]int{}
	names := map[int]string{}
	maxOrder := 0
	for _, e := range ds.FunnelEvents {
		counts[e.StepOrder]++
		names[e.StepOrder] = e.StepName
		if e.StepOrder > maxOrder {
			maxOrder = e.StepOrder
		}
	}

	rows := make([][]string, 0, maxOrder)
	for order := 1; order <= maxOrder; order++ {
		share := float64(counts[order]) / float64(population) * 100
		rows = append(rows, []string{strconv.Itoa(order), names[order], strconv.Itoa(counts[order]), fmt.Sprintf("%.1f%%", share)})
	}
	ui.SummaryTable([]string{"Step", "Name", "Users", "Reach"}, rows)
}
