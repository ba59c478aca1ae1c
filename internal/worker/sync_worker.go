// Package worker reacts to relayed collection changes: it re-runs the revenue
// sync when clients or invoices move, keeping denormalized totals consistent
// for processes that did not perform the mutation themselves.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bkcopilot/internal/amqp"
	"bkcopilot/internal/bus"
	"bkcopilot/internal/log"
	"bkcopilot/internal/revsync"
	"bkcopilot/internal/store"
)

// SyncWorker handles relayed collection-change messages.
type SyncWorker struct {
	syncer *revsync.Syncer
}

func NewSyncWorker(syncer *revsync.Syncer) *SyncWorker {
	return &SyncWorker{syncer: syncer}
}

// HandleChange processes a single collection-change message. Only client and
// invoice changes feed the revenue sync; project and goal changes carry no
// denormalized state and are acknowledged as-is. A synced-clients event is
// also skipped, otherwise the worker's own sync output would loop forever.
func (w *SyncWorker) HandleChange(msg *amqp.CollectionChangedMessage) error {
	ctx := context.Background()

	slog.InfoContext(ctx, "Processing collection change",
		log.FieldCollection, msg.Collection,
		log.FieldOperation, msg.Op,
		log.FieldRecordID, msg.ID)

	if msg.Op == string(bus.OpSynced) {
		return nil
	}

	switch msg.Collection {
	case store.KeyClients, store.KeyInvoices:
		if err := w.syncer.Run(ctx); err != nil {
			return fmt.Errorf("revenue sync for %s change: %w", msg.Collection, err)
		}
	}
	return nil
}

// Reconcile re-runs the revenue sync unconditionally. Called at startup and
// on a timer as a backup against lost messages.
func (w *SyncWorker) Reconcile(ctx context.Context) error {
	if err := w.syncer.Run(ctx); err != nil {
		return fmt.Errorf("reconcile revenue sync: %w", err)
	}
	return nil
}
