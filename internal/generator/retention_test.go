package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohortRetentionDayZeroIsFullCohort(t *testing.T) {
	g := New(smallParams(), 21)
	rows := g.CohortRetention()
	require.NotEmpty(t, rows)

	// Rate 1.0 at day 0 means every cohort user has a row.
	dayZero := make(map[string]int)
	for _, row := range rows {
		if row.DaysSinceInstall == 0 {
			dayZero[row.CohortDate.Format("2006-01-02")]++
		}
	}

	require.Len(t, dayZero, 2, "one day-0 bucket per cohort")
	for cohort, count := range dayZero {
		assert.Equal(t, 2000, count, "cohort %s", cohort)
	}
}

func TestCohortRetentionCurveRates(t *testing.T) {
	g := New(smallParams(), 22)
	rows := g.CohortRetention()

	countByDay := make(map[int]int)
	for _, row := range rows {
		assert.Contains(t, RetentionCurve, row.DaysSinceInstall)
		assert.Equal(t, 2000, row.CohortSize)
		countByDay[row.DaysSinceInstall]++
	}

	// 2 cohorts x 2000 users per retention day.
	const trials = 4000.0
	for day, rate := range RetentionCurve {
		observed := float64(countByDay[day]) / trials
		assert.InDelta(t, rate, observed, 0.02,
			"day %d retention rate %v too far from %v", day, observed, rate)
	}

	// Expected counts strictly decrease along the curve.
	for i := 1; i < len(RetentionDays); i++ {
		assert.Less(t, countByDay[RetentionDays[i]], countByDay[RetentionDays[i-1]],
			"day %d should retain fewer users than day %d",
			RetentionDays[i], RetentionDays[i-1])
	}
}

func TestCohortRetentionCohortSpacing(t *testing.T) {
	p := smallParams()
	p.Cohorts = 3
	p.CohortSize = 10

	g := New(p, 5)
	rows := g.CohortRetention()

	dates := make(map[string]bool)
	for _, row := range rows {
		dates[row.CohortDate.Format("2006-01-02")] = true
	}

	assert.Len(t, dates, 3)
	assert.True(t, dates["2025-06-15"], "newest cohort installs today")
	assert.True(t, dates["2025-06-05"])
	assert.True(t, dates["2025-05-26"])
}

func TestCohortRetentionUsersScopedToCohort(t *testing.T) {
	p := smallParams()
	p.Cohorts = 2
	p.CohortSize = 100

	g := New(p, 9)
	rows := g.CohortRetention()

	for _, row := range rows {
		prefix := "cohort01_user"
		if row.CohortDate.Before(g.today) {
			prefix = "cohort02_user"
		}
		assert.Contains(t, row.UserID, prefix,
			"user %s should belong to its cohort's population", row.UserID)
	}
}
