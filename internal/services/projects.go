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

// ProjectService manages the projets collection. Projects do not feed the
// revenue sync; their value is an estimate, not invoiced money.
type ProjectService struct {
	records *records.Collections
	bus     *bus.Bus
	now     func() time.Time
}

func (s *ProjectService) List(ctx context.Context) ([]core.Project, error) {
	return s.records.Projects(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (core.Project, error) {
	projects, err := s.records.Projects(ctx)
	if err != nil {
		return core.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

func (s *ProjectService) Create(ctx context.Context, p core.Project) (core.Project, error) {
	now := s.now()
	p.ID = core.NewID(now)
	if p.Status == "" {
		p.Status = core.ProjectProspect
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, fmt.Errorf("validate project: %w", err)
	}

	projects, err := s.records.Projects(ctx)
	if err != nil {
		return core.Project{}, err
	}
	projects = append(projects, p)
	if err := s.records.SaveProjects(ctx, projects); err != nil {
		return core.Project{}, err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyProjects, Op: bus.OpCreated, ID: p.ID, At: now})
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, p core.Project) (core.Project, error) {
	projects, err := s.records.Projects(ctx)
	if err != nil {
		return core.Project{}, err
	}

	idx := -1
	for i := range projects {
		if projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	p.ID = id
	if p.Status == "" {
		p.Status = projects[idx].Status
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, fmt.Errorf("validate project: %w", err)
	}

	projects[idx] = p
	if err := s.records.SaveProjects(ctx, projects); err != nil {
		return core.Project{}, err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyProjects, Op: bus.OpUpdated, ID: id, At: s.now()})
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	projects, err := s.records.Projects(ctx)
	if err != nil {
		return err
	}

	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	if err := s.records.SaveProjects(ctx, kept); err != nil {
		return err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyProjects, Op: bus.OpDeleted, ID: id, At: s.now()})
	return nil
}

// Stats returns the summary cards of the projects page.
func (s *ProjectService) Stats(ctx context.Context) (metrics.ProjectStats, error) {
	projects, err := s.records.Projects(ctx)
	if err != nil {
		return metrics.ProjectStats{}, err
	}
	return metrics.ComputeProjectStats(projects), nil
}
