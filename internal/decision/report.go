package decision

import "time"

// Report aggregates a batch of independent, order-insensitive
// per-subject decisions for one plan.
type Report struct {
	PlanID          string   `json:"plan_id"`
	Timestamp       string   `json:"timestamp"`
	Total           int      `json:"total"`
	Passed          int      `json:"passed"`
	Failed          int      `json:"failed"`
	Conditional     int      `json:"conditional_pass"`
	Skipped         int      `json:"skipped"`
	PassRate        float64  `json:"pass_rate"`
	OverallDecision Decision `json:"overall_decision"`
	Results         []Result `json:"per_method"`
}

// BuildReport assembles the aggregate from per-method results, keeping
// their given order (the results themselves are order-insensitive).
func BuildReport(planID string, results []Result, now time.Time) *Report {
	r := &Report{
		PlanID:    planID,
		Timestamp: now.UTC().Format(time.RFC3339),
		Total:     len(results),
		Results:   results,
	}
	for _, res := range results {
		switch res.Decision {
		case Pass:
			r.Passed++
		case Fail:
			r.Failed++
		case ConditionalPass:
			r.Conditional++
		case Skipped:
			r.Skipped++
		}
	}
	decided := r.Total - r.Skipped
	if decided > 0 {
		r.PassRate = float64(r.Passed) / float64(decided)
	}

	switch {
	case decided == 0:
		r.OverallDecision = Skipped
	case r.Failed > 0:
		r.OverallDecision = Fail
	case r.Conditional > 0:
		r.OverallDecision = ConditionalPass
	default:
		r.OverallDecision = Pass
	}
	return r
}
