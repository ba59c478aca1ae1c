package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bkcopilot/internal/core"
)

func TestGoalProgressFinancial(t *testing.T) {
	// goal 100000, paid revenue 25000 -> 25%, not completed
	g := core.Goal{Type: core.GoalFinancial, Label: "CA annuel", Target: 100000}
	actual := GoalActual(g, 25000, 3)
	assert.Equal(t, int64(25000), actual)
	assert.InDelta(t, 25.0, GoalProgress(actual, g.Target), 0.001)
	assert.False(t, GoalCompleted(actual, g.Target))
}

func TestGoalProgressClientCount(t *testing.T) {
	g := core.Goal{Type: core.GoalClientCount, Label: "10 clients", Target: 10}
	actual := GoalActual(g, 999999, 4)
	assert.Equal(t, int64(4), actual, "client goals ignore revenue entirely")
	assert.InDelta(t, 40.0, GoalProgress(actual, g.Target), 0.001)
}

func TestGoalProgressClamped(t *testing.T) {
	assert.Equal(t, 100.0, GoalProgress(250, 100))
	assert.True(t, GoalCompleted(250, 100))
	assert.True(t, GoalCompleted(100, 100), "completion uses unclamped progress >= 100%")
}

func TestGoalProgressZeroTarget(t *testing.T) {
	assert.Equal(t, 0.0, GoalProgress(500, 0))
	assert.False(t, GoalCompleted(500, 0))
}

func TestGoalProgressMonotonicity(t *testing.T) {
	// non-decreasing in actual
	prev := -1.0
	for actual := int64(0); actual <= 200; actual += 10 {
		p := GoalProgress(actual, 100)
		assert.GreaterOrEqual(t, p, prev)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
		prev = p
	}
	// non-increasing in target
	prev = 101.0
	for target := int64(10); target <= 200; target += 10 {
		p := GoalProgress(50, target)
		assert.LessOrEqual(t, p, prev)
		prev = p
	}
}

func TestTotalProgression(t *testing.T) {
	goals := []core.Goal{
		{Type: core.GoalFinancial, Label: "CA", Target: 100000},  // 25%
		{Type: core.GoalClientCount, Label: "Clients", Target: 2}, // 100% clamped (4 clients)
	}
	got := TotalProgression(goals, 25000, 4)
	assert.InDelta(t, 62.5, got, 0.001)
}

func TestTotalProgressionEmpty(t *testing.T) {
	assert.Equal(t, 0.0, TotalProgression(nil, 25000, 4))
}

func TestAnnualFinancialGoalPicksFirst(t *testing.T) {
	goals := []core.Goal{
		{ID: "1", Type: core.GoalClientCount, Label: "Clients", Target: 10},
		{ID: "2", Type: core.GoalFinancial, Label: "CA 2025", Target: 80000},
		{ID: "3", Type: core.GoalFinancial, Label: "CA 2026", Target: 90000},
	}
	g, ok := AnnualFinancialGoal(goals)
	assert.True(t, ok)
	assert.Equal(t, "2", g.ID)

	_, ok = AnnualFinancialGoal([]core.Goal{{Type: core.GoalClientCount}})
	assert.False(t, ok)
}
