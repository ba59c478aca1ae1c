package services

import (
	"context"
	"fmt"
	"time"

	"bkcopilot/internal/bus"
	"bkcopilot/internal/core"
	"bkcopilot/internal/log"
	"bkcopilot/internal/metrics"
	"bkcopilot/internal/records"
	"bkcopilot/internal/revsync"
	"bkcopilot/internal/store"
)

// ClientService manages the clients collection.
type ClientService struct {
	records *records.Collections
	syncer  *revsync.Syncer
	bus     *bus.Bus
	now     func() time.Time
}

func (s *ClientService) List(ctx context.Context) ([]core.Client, error) {
	return s.records.Clients(ctx)
}

func (s *ClientService) Get(ctx context.Context, id string) (core.Client, error) {
	clients, err := s.records.Clients(ctx)
	if err != nil {
		return core.Client{}, err
	}
	for _, c := range clients {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
}

// Create appends a new client. The denormalized revenue starts at 0 and is
// immediately recomputed, so a client created for a company with existing
// invoices shows their total right away.
func (s *ClientService) Create(ctx context.Context, c core.Client) (core.Client, error) {
	now := s.now()
	c.ID = core.NewID(now)
	c.Revenue = 0
	if c.Subscription == "" {
		c.Subscription = core.SubscriptionActive
	}
	if c.LastActivity == "" {
		c.LastActivity = core.Today(now)
	}
	if err := c.Validate(); err != nil {
		return core.Client{}, fmt.Errorf("validate client: %w", err)
	}

	clients, err := s.records.Clients(ctx)
	if err != nil {
		return core.Client{}, err
	}
	clients = append(clients, c)
	if err := s.records.SaveClients(ctx, clients); err != nil {
		return core.Client{}, err
	}

	s.afterMutation(ctx, bus.Event{Collection: store.KeyClients, Op: bus.OpCreated, ID: c.ID, At: now})
	log.FromContext(ctx).InfoContext(ctx, "Client created",
		log.FieldOperation, log.OpCreate, log.FieldRecordID, c.ID, log.FieldCompany, c.Company)
	return c, nil
}

// Update replaces the stored record, keeping the denormalized revenue from
// the stored copy; the sync that follows recomputes it anyway.
func (s *ClientService) Update(ctx context.Context, id string, c core.Client) (core.Client, error) {
	clients, err := s.records.Clients(ctx)
	if err != nil {
		return core.Client{}, err
	}

	idx := -1
	for i := range clients {
		if clients[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}

	c.ID = id
	c.Revenue = clients[idx].Revenue
	if c.LastActivity == "" {
		c.LastActivity = clients[idx].LastActivity
	}
	if err := c.Validate(); err != nil {
		return core.Client{}, fmt.Errorf("validate client: %w", err)
	}

	clients[idx] = c
	if err := s.records.SaveClients(ctx, clients); err != nil {
		return core.Client{}, err
	}

	s.afterMutation(ctx, bus.Event{Collection: store.KeyClients, Op: bus.OpUpdated, ID: id, At: s.now()})
	log.FromContext(ctx).InfoContext(ctx, "Client updated",
		log.FieldOperation, log.OpUpdate, log.FieldRecordID, id, log.FieldCompany, c.Company)
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	clients, err := s.records.Clients(ctx)
	if err != nil {
		return err
	}

	kept := clients[:0]
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clients) {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}

	if err := s.records.SaveClients(ctx, kept); err != nil {
		return err
	}

	s.bus.Publish(ctx, bus.Event{Collection: store.KeyClients, Op: bus.OpDeleted, ID: id, At: s.now()})
	log.FromContext(ctx).InfoContext(ctx, "Client deleted",
		log.FieldOperation, log.OpDelete, log.FieldRecordID, id)
	return nil
}

// Stats returns the summary cards of the clients page.
func (s *ClientService) Stats(ctx context.Context) (metrics.ClientStats, error) {
	clients, err := s.records.Clients(ctx)
	if err != nil {
		return metrics.ClientStats{}, err
	}
	return metrics.ComputeClientStats(s.now(), clients), nil
}

// afterMutation runs the revenue sync and publishes the change event. A
// failed sync is logged, not surfaced: the mutation itself already persisted.
func (s *ClientService) afterMutation(ctx context.Context, ev bus.Event) {
	if err := s.syncer.Run(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Revenue sync after client mutation failed",
			log.FieldError, err, log.FieldOperation, log.OpSync, log.FieldRecordID, ev.ID)
	}
	s.bus.Publish(ctx, ev)
}
