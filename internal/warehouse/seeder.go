package warehouse

import (
	"context"

	"metricseed/internal/generator"
	"metricseed/pkg/errors"
	"metricseed/pkg/models"
)

// TablePlan is the full statement sequence for seeding one table:
// a reset DDL, the chunked inserts, and any second-pass updates.
type TablePlan struct {
	Table   string
	Rows    int
	DDL     string
	Inserts []string
	Updates []string
}

// StatementCount returns how many statements the plan executes.
func (p TablePlan) StatementCount() int {
	return 1 + len(p.Inserts) + len(p.Updates)
}

// Plan renders a generated dataset into per-table statement plans.
// It needs no warehouse session, so dry runs use it directly.
func Plan(ds *generator.Dataset, batchSize int) []TablePlan {
	return []TablePlan{
		{
			Table:   models.TableDailyMetrics,
			Rows:    len(ds.DailyMetrics.Rows),
			DDL:     tableDDL(models.TableDailyMetrics),
			Inserts: dailyMetricInserts(ds.DailyMetrics.Rows, batchSize),
			Updates: spendUpdates(ds.DailyMetrics),
		},
		{
			Table:   models.TableCohortRetention,
			Rows:    len(ds.CohortRetention),
			DDL:     tableDDL(models.TableCohortRetention),
			Inserts: retentionInserts(ds.CohortRetention, batchSize),
		},
		{
			Table:   models.TableCampaigns,
			Rows:    len(ds.Campaigns),
			DDL:     tableDDL(models.TableCampaigns),
			Inserts: campaignInserts(ds.Campaigns, batchSize),
		},
		{
			Table:   models.TableUserSegments,
			Rows:    len(ds.UserSegments),
			DDL:     tableDDL(models.TableUserSegments),
			Inserts: segmentInserts(ds.UserSegments, batchSize),
		},
		{
			Table:   models.TableFunnelEvents,
			Rows:    len(ds.FunnelEvents),
			DDL:     tableDDL(models.TableFunnelEvents),
			Inserts: funnelInserts(ds.FunnelEvents, batchSize),
		},
	}
}

// ProgressFunc receives statement-level progress per table.
type ProgressFunc func(table string, done, total int)

// Seeder writes a generated dataset into the warehouse, one table at
// a time, all-or-nothing per table.
type Seeder struct {
	svc       *Service
	batchSize int
	progress  ProgressFunc
}

// NewSeeder creates a seeder over an established warehouse session.
func NewSeeder(svc *Service, batchSize int) *Seeder {
	return &Seeder{svc: svc, batchSize: batchSize}
}

// OnProgress registers a progress callback.
func (s *Seeder) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// Seed executes the plans for every table in the dataset. A failure
// in one table aborts the run; tables already committed stay.
func (s *Seeder) Seed(ctx context.Context, ds *generator.Dataset) error {
	for _, plan := range Plan(ds, s.batchSize) {
		if err := s.SeedTable(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}

// SeedTable runs one table's plan inside a single transaction so a
// failed write never leaves a half-populated table behind. The
// underlying driver error is preserved on the returned error.
func (s *Seeder) SeedTable(ctx context.Context, plan TablePlan) error {
	tx, err := s.svc.BeginTransaction(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin transaction").
			WithContext("table", plan.Table)
	}

	total := plan.StatementCount()
	done := 0
	step := func() {
		done++
		if s.progress != nil {
			s.progress(plan.Table, done, total)
		}
	}

	if _, err := tx.ExecContext(ctx, plan.DDL); err != nil {
		_ = tx.Rollback()
		return errors.TableCreateError(plan.Table, err)
	}
	step()

	for _, stmt := range plan.Inserts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return errors.WriteError(plan.Table, err)
		}
		step()
	}

	// Second pass; for daily_metrics this is the per-date spend
	// normalization over rows inserted above.
	for _, stmt := range plan.Updates {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return errors.WriteError(plan.Table, err)
		}
		step()
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit transaction").
			WithContext("table", plan.Table)
	}

	return nil
}
