package generator

import "metricseed/pkg/models"

// FunnelStep is one stage of the fixed onboarding funnel.
type FunnelStep struct {
	Order int
	Name  string
	Rate  float64 // probability a user reaches this step
}

// FunnelSteps is the fixed funnel with monotonically decreasing reach.
var FunnelSteps = []FunnelStep{
	{1, "App Open", 1.0},
	{2, "Onboarding Start", 0.85},
	{3, "Onboarding Complete", 0.68},
	{4, "First Action", 0.51},
	{5, "Trial Start", 0.20},
	{6, "Subscription Purchase", 0.03},
}

// FunnelEvents generates the funnel_events table. Every (user, step)
// pair is sampled independently at the step's reach rate, so step
// counts decrease in expectation but carry no per-user ordering
// guarantee. All rows are dated today.
func (g *Generator) FunnelEvents() []models.FunnelEvent {
	users := UserIDs("user", g.params.SegmentUsers)
	var rows []models.FunnelEvent

	for _, user := range users {
		for _, step := range FunnelSteps {
			if g.rng.Float64() < step.Rate {
				rows = append(rows, models.FunnelEvent{
					Date:      g.today,
					UserID:    user,
					StepName:  step.Name,
					StepOrder: step.Order,
				})
			}
		}
	}

	return rows
}
