// Package revsync keeps each client's denormalized revenue total consistent
// with the invoice collection. It re-runs after every invoice mutation and on
// finance view load.
package revsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

// Recompute returns the client list with every Revenue field replaced by the
// sum of invoice prices whose company matches the client's company. Matching
// is exact and case-sensitive, and deliberately status-blind: unpaid invoices
// count toward the client total even though the finance page's "collected"
// figure is paid-only. A renamed client stops matching its historical
// invoices; that is a known property of name-based matching, not corrected
// here.
func Recompute(clients []core.Client, invoices []core.Invoice) []core.Client {
	out := make([]core.Client, len(clients))
	for i, c := range clients {
		var total int64
		for _, f := range invoices {
			if f.Company == c.Company {
				total += f.Price
			}
		}
		c.Revenue = total
		out[i] = c
	}
	return out
}

// Syncer recomputes against the store and persists the result.
type Syncer struct {
	store store.Store
}

func New(st store.Store) *Syncer {
	return &Syncer{store: st}
}

// Run loads both collections, recomputes client revenues and persists the
// client collection. A collection that exists but fails to decode makes the
// sync a silent no-op (logged): overwriting records based on a half-read
// snapshot would lose data.
func (s *Syncer) Run(ctx context.Context) error {
	clients, ok, err := s.loadClients(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	invoices, ok, err := s.loadInvoices(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	synced := Recompute(clients, invoices)
	payload, err := json.Marshal(synced)
	if err != nil {
		return fmt.Errorf("marshal clients: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyClients, payload); err != nil {
		return fmt.Errorf("persist synced clients: %w", err)
	}

	slog.DebugContext(ctx, "Revenue sync completed",
		"clients", len(synced), "invoices", len(invoices))
	return nil
}

func (s *Syncer) loadClients(ctx context.Context) ([]core.Client, bool, error) {
	payload, found, err := s.store.Get(ctx, store.KeyClients)
	if err != nil {
		return nil, false, fmt.Errorf("load clients: %w", err)
	}
	if !found || len(payload) == 0 {
		return []core.Client{}, true, nil
	}
	var clients []core.Client
	if err := json.Unmarshal(payload, &clients); err != nil {
		slog.WarnContext(ctx, "Skipping revenue sync, client collection unreadable", "error", err)
		return nil, false, nil
	}
	return clients, true, nil
}

func (s *Syncer) loadInvoices(ctx context.Context) ([]core.Invoice, bool, error) {
	payload, found, err := s.store.Get(ctx, store.KeyInvoices)
	if err != nil {
		return nil, false, fmt.Errorf("load invoices: %w", err)
	}
	if !found || len(payload) == 0 {
		return []core.Invoice{}, true, nil
	}
	var invoices []core.Invoice
	if err := json.Unmarshal(payload, &invoices); err != nil {
		slog.WarnContext(ctx, "Skipping revenue sync, invoice collection unreadable", "error", err)
		return nil, false, nil
	}
	return invoices, true, nil
}
