// Package records maps store payloads to typed entity collections. A
// collection is always handled whole: load the full array, mutate in memory,
// write the full array back.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

// Collections is the typed access layer over the record store.
type Collections struct {
	store store.Store
}

func New(st store.Store) *Collections {
	return &Collections{store: st}
}

// load reads and decodes one collection. A payload that fails to decode is
// logged and treated as empty: the app degrades to "no data", it never
// refuses to start over a corrupt collection.
func load[T any](ctx context.Context, st store.Store, key string) ([]T, error) {
	payload, found, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found || len(payload) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(payload, &out); err != nil {
		slog.ErrorContext(ctx, "Collection payload is corrupt, falling back to empty",
			"collection", key, "error", err)
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func save[T any](ctx context.Context, st store.Store, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := st.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (c *Collections) Clients(ctx context.Context) ([]core.Client, error) {
	return load[core.Client](ctx, c.store, store.KeyClients)
}

func (c *Collections) SaveClients(ctx context.Context, list []core.Client) error {
	return save(ctx, c.store, store.KeyClients, list)
}

func (c *Collections) Invoices(ctx context.Context) ([]core.Invoice, error) {
	return load[core.Invoice](ctx, c.store, store.KeyInvoices)
}

func (c *Collections) SaveInvoices(ctx context.Context, list []core.Invoice) error {
	return save(ctx, c.store, store.KeyInvoices, list)
}

func (c *Collections) Projects(ctx context.Context) ([]core.Project, error) {
	return load[core.Project](ctx, c.store, store.KeyProjects)
}

func (c *Collections) SaveProjects(ctx context.Context, list []core.Project) error {
	return save(ctx, c.store, store.KeyProjects, list)
}

func (c *Collections) Goals(ctx context.Context) ([]core.Goal, error) {
	return load[core.Goal](ctx, c.store, store.KeyGoals)
}

func (c *Collections) SaveGoals(ctx context.Context, list []core.Goal) error {
	return save(ctx, c.store, store.KeyGoals, list)
}
