package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"metricseed/internal/config"
	"metricseed/internal/generator"
	"metricseed/internal/ui"
	"metricseed/internal/warehouse"
	"metricseed/pkg/errors"
	"metricseed/pkg/models"
)

var (
	seedDays      int
	seedUsers     int
	seedRandom    int64
	seedTables    []string
	seedDryRun    bool
	seedBatchSize int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample data and load it into Snowflake",
	Long: `Generate the synthetic analytics dataset and load it into the configured
Snowflake database. Each table is created with CREATE OR REPLACE and
populated inside a single transaction, so a failed table is never left
half-written. Use --dry-run to see the statement plan without connecting.`,
	Run: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedDays, "days", 0, "Days of daily metrics history (default 90)")
	seedCmd.Flags().IntVar(&seedUsers, "users", 0, "User population for daily metrics (default 50000)")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 0, "Random seed (default: current time)")
	seedCmd.Flags().StringSliceVar(&seedTables, "tables", nil, "Only seed these tables (default: all)")
	seedCmd.Flags().BoolVarP(&seedDryRun, "dry-run", "d", false, "Show the statement plan without executing")
	seedCmd.Flags().IntVar(&seedBatchSize, "batch-size", 0, "Rows per INSERT statement (default 1000)")
}

func runSeed(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	out := ui.NewUI(rootVerbose, rootQuiet)

	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	params, seed, batchSize := resolveGeneration(appConfig)

	out.VerbosePrintf("Generating dataset (seed %d, %d days, %d users)\n", seed, params.MetricsDays, params.MetricsUsers)
	ds, err := generator.New(params, seed).Dataset()
	if err != nil {
		ui.ShowError(err)
		return
	}
	out.VerbosePrintf("Generated %d rows\n", ds.RowCount())

	plans, err := selectPlans(warehouse.Plan(ds, batchSize), seedTables)
	if err != nil {
		ui.ShowError(err)
		return
	}

	if seedDryRun {
		showPlan(plans, seed)
		return
	}

	ui.ShowHeader("MetricSeed - Loading sample data")

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

	// Dates are generated in UTC; keep CURRENT_DATE() in downstream
	// queries on the same calendar.
	if err := svc.ExecuteStatement(ctx, "ALTER SESSION SET TIMEZONE = 'UTC'"); err != nil {
		ui.ShowError(err)
		return
	}

	seeder := warehouse.NewSeeder(svc, batchSize)

	bars := map[string]*ui.ProgressBar{}
	if !rootQuiet {
		registerProgress(seeder, bars)
	}

	start := time.Now()
	for _, plan := range plans {
		if err := seeder.SeedTable(ctx, plan); err != nil {
			ui.ShowError(err)
			return
		}
	}

	rows := 0
	for _, plan := range plans {
		rows += plan.Rows
	}
	out.Success(fmt.Sprintf("Seeded %d tables (%d rows) in %s", len(plans), rows, time.Since(start).Round(time.Second)))
}

func registerProgress(seeder *warehouse.Seeder, bars map[string]*ui.ProgressBar) {
	seeder.OnProgress(func(table string, done, total int) {
		bar, ok := bars[table]
		if !ok {
			bar = ui.NewProgressBar(table, total)
			bars[table] = bar
		}
		bar.Update(done)
		if done >= total {
			bar.Finish()
		}
	})
}

// warehouseConfig builds the connection config, resolving the password
// from the credential store when needed, and validates it before any
// connection attempt.
func warehouseConfig(cfg *models.Config) (warehouse.Config, error) {
	password, err := config.ResolvePassword(cfg)
	if err != nil {
		return warehouse.Config{}, err
	}

	whConfig := warehouse.Config{
		Account:   cfg.Snowflake.Account,
		Username:  cfg.Snowflake.Username,
		Password:  password,
		Role:      cfg.Snowflake.Role,
		Warehouse: cfg.Snowflake.Warehouse,
		Database:  cfg.Snowflake.Database,
		Schema:    cfg.Snowflake.Schema,
	}
	if err := warehouse.ValidateConfig(whConfig); err != nil {
		return warehouse.Config{}, errors.ConfigError(err.Error(), "snowflake")
	}
	return whConfig, nil
}

// resolveGeneration merges the built-in defaults, the config file and
// the command line flags, in increasing precedence.
func resolveGeneration(cfg *models.Config) (generator.Params, int64, int) {
	params := generator.DefaultParams()

	if cfg.Seed.MetricsDays > 0 {
		params.MetricsDays = cfg.Seed.MetricsDays
	}
	if cfg.Seed.MetricsUsers > 0 {
		params.MetricsUsers = cfg.Seed.MetricsUsers
	}
	if cfg.Seed.CampaignDays > 0 {
		params.CampaignDays = cfg.Seed.CampaignDays
	}
	if cfg.Seed.SegmentUsers > 0 {
		params.SegmentUsers = cfg.Seed.SegmentUsers
	}

	if seedDays > 0 {
		params.MetricsDays = seedDays
	}
	if seedUsers > 0 {
		params.MetricsUsers = seedUsers
	}

	seed := cfg.Seed.RandomSeed
	if seedRandom != 0 {
		seed = seedRandom
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	batchSize := cfg.Seed.BatchSize
	if seedBatchSize > 0 {
		batchSize = seedBatchSize
	}

	return params, seed, batchSize
}

// selectPlans filters the full plan list down to the requested tables,
// preserving seeding order. An unknown table name is an error.
func selectPlans(plans []warehouse.TablePlan, tables []string) ([]warehouse.TablePlan, error) {
	if len(tables) == 0 {
		return plans, nil
	}

	wanted := map[string]bool{}
	for _, t := range tables {
		wanted[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for t := range wanted {
		known := false
		for _, k := range models.SeedTables {
			if t == k {
				known = true
				break
			}
		}
		if !known {
			return nil, errors.ValidationError("tables", t, fmt.Sprintf("unknown table %q (known: %s)", t, strings.Join(models.SeedTables, ", ")))
		}
	}

	var selected []warehouse.TablePlan
	for _, plan := range plans {
		if wanted[plan.Table] {
			selected = append(selected, plan)
		}
	}
	return selected, nil
}

func showPlan(plans []warehouse.TablePlan, seed int64) {
	ui.ShowHeader("MetricSeed - Dry run")
	ui.ShowInfo(fmt.Sprintf("Random seed: %d", seed))

	rows := make([][]string, 0, len(plans))
	totalRows, totalStmts := 0, 0
	for _, plan := range plans {
		rows = append(rows, []string{
			plan.Table,
			strconv.Itoa(plan.Rows),
			strconv.Itoa(len(plan.Inserts)),
			strconv.Itoa(len(plan.Updates)),
			strconv.Itoa(plan.StatementCount()),
		})
		totalRows += plan.Rows
		totalStmts += plan.StatementCount()
	}
	ui.SummaryTable([]string{"Table", "Rows", "Inserts", "Updates", "Statements"}, rows)
	ui.ShowInfo(fmt.Sprintf("Total: %d rows, %d statements. Nothing was executed.", totalRows, totalStmts))
}
