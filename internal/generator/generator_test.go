package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "metricseed/pkg/errors"
)

var testToday = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

// smallParams keeps test runs fast while preserving every
// distributional rule.
func smallParams() Params {
	p := DefaultParams()
	p.Today = testToday
	p.MetricsDays = 5
	p.MetricsUsers = 2000
	p.CampaignDays = 5
	p.Cohorts = 2
	p.CohortSize = 2000
	p.SegmentUsers = 2000
	return p
}

func TestDateRange(t *testing.T) {
	dates := DateRange(testToday, 7)

	require.Len(t, dates, 7)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), dates[6])

	seen := make(map[string]bool)
	for i, d := range dates {
		assert.Equal(t, time.UTC, d.Location())
		assert.Zero(t, d.Hour(), "dates must be truncated to midnight")
		assert.False(t, seen[d.Format("2006-01-02")], "no duplicate dates")
		seen[d.Format("2006-01-02")] = true
		if i > 0 {
			assert.Equal(t, 24*time.Hour, d.Sub(dates[i-1]), "no gaps")
		}
	}
}

func TestUserIDs(t *testing.T) {
	ids := UserIDs("user", 3)
	assert.Equal(t, []string{"user_000001", "user_000002", "user_000003"}, ids)

	// Same prefix and count must reproduce the same join keys.
	assert.Equal(t, ids, UserIDs("user", 3))

	big := UserIDs("user", 50000)
	assert.Len(t, big, 50000)
	assert.Equal(t, "user_050000", big[len(big)-1])
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults are valid", func(p *Params) {}, false},
		{"zero metrics days", func(p *Params) { p.MetricsDays = 0 }, true},
		{"negative users", func(p *Params) { p.MetricsUsers = -1 }, true},
		{"active rate above one", func(p *Params) { p.ActiveRate = 1.5 }, true},
		{"inverted budget range", func(p *Params) { p.DailyBudgetMin = 5000 }, true},
		{"zero campaign days", func(p *Params) { p.CampaignDays = 0 }, true},
		{"zero cohorts", func(p *Params) { p.Cohorts = 0 }, true},
		{"zero segment users", func(p *Params) { p.SegmentUsers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatasetGeneratesAllTables(t *testing.T) {
	g := New(smallParams(), 7)

	ds, err := g.Dataset()
	require.NoError(t, err)

	assert.NotEmpty(t, ds.DailyMetrics.Rows)
	assert.NotEmpty(t, ds.CohortRetention)
	assert.NotEmpty(t, ds.Campaigns)
	assert.Len(t, ds.UserSegments, 2000)
	assert.NotEmpty(t, ds.FunnelEvents)
	assert.Equal(t,
		len(ds.DailyMetrics.Rows)+len(ds.CohortRetention)+len(ds.Campaigns)+
			len(ds.UserSegments)+len(ds.FunnelEvents),
		ds.RowCount())
}

func TestDatasetRejectsInvalidParams(t *testing.T) {
	p := smallParams()
	p.MetricsUsers = 0

	_, err := New(p, 1).Dataset()
	require.Error(t, err)

	// The generation failure wraps the underlying parameter error
	assert.Equal(t, apperrors.ErrCodeGenerationFailed, apperrors.GetErrorCode(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Error(t, appErr.Cause)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetErrorCode(appErr.Cause))
}

func TestSeededRunsAreReproducible(t *testing.T) {
	p := smallParams()

	a, err := New(p, 99).Dataset()
	require.NoError(t, err)
	b, err := New(p, 99).Dataset()
	require.NoError(t, err)

	assert.Equal(t, a.DailyMetrics.Rows, b.DailyMetrics.Rows)
	assert.Equal(t, a.Campaigns, b.Campaigns)
	assert.Equal(t, a.UserSegments, b.UserSegments)

	c, err := New(p, 100).Dataset()
	require.NoError(t, err)
	assert.NotEqual(t, a.DailyMetrics.Rows, c.DailyMetrics.Rows,
		"different seeds should produce different rows")
}
