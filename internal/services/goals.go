package services

import (
	"context"
	"fmt"
	"time"

	"bkcopilot/internal/bus"
	"bkcopilot/internal/core"
	"bkcopilot/internal/metrics"
	"bkcopilot/internal/records"
	"bkcopilot/internal/store"
)

// GoalProgress is one goal with its live progress attached.
type GoalProgress struct {
	core.Goal
	Actual    int64   `json:"valeurActuelle"`
	Progress  float64 `json:"progression"`
	Completed bool    `json:"atteint"`
}

// GoalsOverview is the goals page payload: every goal with progress plus the
// unweighted mean across them.
type GoalsOverview struct {
	Goals            []GoalProgress `json:"objectifs"`
	TotalProgression float64        `json:"progressionTotale"`
}

// GoalService manages the objectifs collection.
type GoalService struct {
	records *records.Collections
	bus     *bus.Bus
	now     func() time.Time
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	return s.records.Goals(ctx)
}

func (s *GoalService) Get(ctx context.Context, id string) (core.Goal, error) {
	goals, err := s.records.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
}

func (s *GoalService) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	now := s.now()
	g.ID = core.NewID(now)
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}

	goals, err := s.records.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	goals = append(goals, g)
	if err := s.records.SaveGoals(ctx, goals); err != nil {
		return core.Goal{}, err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyGoals, Op: bus.OpCreated, ID: g.ID, At: now})
	return g, nil
}

func (s *GoalService) Update(ctx context.Context, id string, g core.Goal) (core.Goal, error) {
	goals, err := s.records.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}

	idx := -1
	for i := range goals {
		if goals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}

	g.ID = id
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}

	goals[idx] = g
	if err := s.records.SaveGoals(ctx, goals); err != nil {
		return core.Goal{}, err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyGoals, Op: bus.OpUpdated, ID: id, At: s.now()})
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	goals, err := s.records.Goals(ctx)
	if err != nil {
		return err
	}

	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(goals) {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}

	if err := s.records.SaveGoals(ctx, kept); err != nil {
		return err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyGoals, Op: bus.OpDeleted, ID: id, At: s.now()})
	return nil
}

// Overview resolves every goal against the live figures: all-time paid
// revenue for financial goals, total client count for client goals. Stored
// goal date ranges do not restrict either figure.
func (s *GoalService) Overview(ctx context.Context) (GoalsOverview, error) {
	goals, err := s.records.Goals(ctx)
	if err != nil {
		return GoalsOverview{}, err
	}
	clients, err := s.records.Clients(ctx)
	if err != nil {
		return GoalsOverview{}, err
	}
	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return GoalsOverview{}, err
	}

	paid := metrics.RevenueCollected(invoices)

	out := GoalsOverview{Goals: make([]GoalProgress, 0, len(goals))}
	for _, g := range goals {
		actual := metrics.GoalActual(g, paid, len(clients))
		out.Goals = append(out.Goals, GoalProgress{
			Goal:      g,
			Actual:    actual,
			Progress:  metrics.GoalProgress(actual, g.Target),
			Completed: metrics.GoalCompleted(actual, g.Target),
		})
	}
	out.TotalProgression = metrics.TotalProgression(goals, paid, len(clients))
	return out, nil
}
