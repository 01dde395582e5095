package generator

import (
	"fmt"

	"metricseed/pkg/models"
)

// RetentionDays are the tracked offsets after install.
var RetentionDays = []int{0, 1, 3, 7, 14, 30, 60, 90}

// RetentionCurve maps days-since-install to the probability that a
// cohort user produces a row for that day. Strictly decreasing.
var RetentionCurve = map[int]float64{
	0:  1.0,
	1:  0.40,
	3:  0.30,
	7:  0.20,
	14: 0.15,
	30: 0.10,
	60: 0.07,
	90: 0.05,
}

// CohortRetention generates the cohort_retention table. Cohort install
// dates are spaced CohortSpacingDays apart counting back from today.
// Each (user, day) pair is sampled independently at the curve rate, so
// a user can show up at day 90 without a day 30 row; the curve decays
// in expectation, not per user.
func (g *Generator) CohortRetention() []models.RetentionRow {
	var rows []models.RetentionRow

	for c := 0; c < g.params.Cohorts; c++ {
		cohortDate := g.today.AddDate(0, 0, -c*g.params.CohortSpacingDays)
		users := UserIDs(fmt.Sprintf("cohort%02d_user", c+1), g.params.CohortSize)

		for _, day := range RetentionDays {
			rate := RetentionCurve[day]
			for _, user := range users {
				if g.rng.Float64() < rate {
					rows = append(rows, models.RetentionRow{
						CohortDate:       cohortDate,
						DaysSinceInstall: day,
						UserID:           user,
						CohortSize:       g.params.CohortSize,
					})
				}
			}
		}
	}

	return rows
}
