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

// InvoiceService manages the factures collection. Every mutation re-runs the
// revenue sync so client totals never lag the invoices behind them.
type InvoiceService struct {
	records *records.Collections
	syncer  *revsync.Syncer
	bus     *bus.Bus
	now     func() time.Time
}

func (s *InvoiceService) List(ctx context.Context) ([]core.Invoice, error) {
	return s.records.Invoices(ctx)
}

func (s *InvoiceService) Get(ctx context.Context, id string) (core.Invoice, error) {
	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return core.Invoice{}, err
	}
	for _, f := range invoices {
		if f.ID == id {
			return f, nil
		}
	}
	return core.Invoice{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
}

// Create appends a new invoice. The invoice number is sequential over the
// collection length, and the subscription flag is copied from the client whose
// company matches exactly, when one exists.
func (s *InvoiceService) Create(ctx context.Context, f core.Invoice) (core.Invoice, error) {
	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return core.Invoice{}, err
	}

	now := s.now()
	f.ID = core.NewID(now)
	f.Number = core.InvoiceNumber(len(invoices) + 1)
	if f.Date == "" {
		f.Date = core.Today(now)
	}
	if f.Status == "" {
		f.Status = core.InvoiceUnpaid
	}
	if sub, ok := s.matchSubscription(ctx, f.Company); ok {
		f.Subscription = sub
	} else {
		f.Subscription = core.SubscriptionActive
	}
	if err := f.Validate(); err != nil {
		return core.Invoice{}, fmt.Errorf("validate invoice: %w", err)
	}

	invoices = append(invoices, f)
	if err := s.records.SaveInvoices(ctx, invoices); err != nil {
		return core.Invoice{}, err
	}

	s.afterMutation(ctx, bus.Event{Collection: store.KeyInvoices, Op: bus.OpCreated, ID: f.ID, At: now})
	log.FromContext(ctx).InfoContext(ctx, "Invoice created",
		log.FieldOperation, log.OpCreate, log.FieldRecordID, f.ID,
		log.FieldCompany, f.Company, log.FieldAmount, f.Price)
	return f, nil
}

// Update replaces the stored record. The invoice number is immutable.
func (s *InvoiceService) Update(ctx context.Context, id string, f core.Invoice) (core.Invoice, error) {
	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return core.Invoice{}, err
	}

	idx := -1
	for i := range invoices {
		if invoices[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Invoice{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}

	f.ID = id
	f.Number = invoices[idx].Number
	if f.Date == "" {
		f.Date = invoices[idx].Date
	}
	if f.Status == "" {
		f.Status = invoices[idx].Status
	}
	if f.Subscription == "" {
		f.Subscription = invoices[idx].Subscription
	}
	if err := f.Validate(); err != nil {
		return core.Invoice{}, fmt.Errorf("validate invoice: %w", err)
	}

	invoices[idx] = f
	if err := s.records.SaveInvoices(ctx, invoices); err != nil {
		return core.Invoice{}, err
	}

	s.afterMutation(ctx, bus.Event{Collection: store.KeyInvoices, Op: bus.OpUpdated, ID: id, At: s.now()})
	return f, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return err
	}

	kept := invoices[:0]
	for _, f := range invoices {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(invoices) {
		return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}

	if err := s.records.SaveInvoices(ctx, kept); err != nil {
		return err
	}

	s.afterMutation(ctx, bus.Event{Collection: store.KeyInvoices, Op: bus.OpDeleted, ID: id, At: s.now()})
	return nil
}

// Stats returns the summary cards of the finance page. The revenue sync runs
// first so the denormalized client totals refresh whenever finance is viewed.
func (s *InvoiceService) Stats(ctx context.Context) (metrics.FinanceStats, error) {
	if err := s.syncer.Run(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Revenue sync on finance view failed", log.FieldError, err)
	}

	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return metrics.FinanceStats{}, err
	}
	return metrics.ComputeFinanceStats(s.now(), invoices), nil
}

func (s *InvoiceService) matchSubscription(ctx context.Context, company string) (core.Subscription, bool) {
	clients, err := s.records.Clients(ctx)
	if err != nil {
		return "", false
	}
	for _, c := range clients {
		if c.Company == company && c.Subscription != "" {
			return c.Subscription, true
		}
	}
	return "", false
}

// afterMutation re-syncs client revenues, then publishes the invoice event
// followed by a synced-clients event since the sync rewrote that collection.
func (s *InvoiceService) afterMutation(ctx context.Context, ev bus.Event) {
	if err := s.syncer.Run(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Revenue sync after invoice mutation failed",
			log.FieldError, err, log.FieldOperation, log.OpSync, log.FieldRecordID, ev.ID)
	}
	s.bus.Publish(ctx, ev)
	s.bus.Publish(ctx, bus.Event{Collection: store.KeyClients, Op: bus.OpSynced, At: ev.At})
}
