package metrics

import "bkcopilot/internal/core"

// GoalActual resolves the live value a goal is measured against: all-time
// paid revenue for financial goals, total client count for client goals. The
// goal's own stored date range does not restrict either value.
func GoalActual(g core.Goal, paidRevenue int64, clientCount int) int64 {
	if g.Type == core.GoalFinancial {
		return paidRevenue
	}
	return int64(clientCount)
}

// GoalProgress is the completion percentage clamped to [0, 100]. A zero or
// missing target yields 0, never a division error.
func GoalProgress(actual, target int64) float64 {
	if target <= 0 {
		return 0
	}
	p := float64(actual) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}

// GoalCompleted reports whether the unclamped progress reached 100%.
func GoalCompleted(actual, target int64) bool {
	return target > 0 && actual >= target
}

// TotalProgression is the unweighted mean of every goal's clamped progress.
// An empty goal list yields 0.
func TotalProgression(goals []core.Goal, paidRevenue int64, clientCount int) float64 {
	if len(goals) == 0 {
		return 0
	}
	var sum float64
	for _, g := range goals {
		sum += GoalProgress(GoalActual(g, paidRevenue, clientCount), g.Target)
	}
	return sum / float64(len(goals))
}

// AnnualFinancialGoal returns the first financial goal in collection order,
// which the dashboard presents as the annual target.
func AnnualFinancialGoal(goals []core.Goal) (core.Goal, bool) {
	for _, g := range goals {
		if g.Type == core.GoalFinancial {
			return g, true
		}
	}
	return core.Goal{}, false
}
