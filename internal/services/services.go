// Package services orchestrates every mutation: validate, persist the full
// collection, re-run the revenue sync where invoices are involved, then
// broadcast a change event on the bus.
package services

import (
	"errors"
	"time"

	"bkcopilot/internal/bus"
	"bkcopilot/internal/cache"
	"bkcopilot/internal/records"
	"bkcopilot/internal/revsync"
)

// ErrNotFound reports a record id absent from its collection.
var ErrNotFound = errors.New("record not found")

// Services bundles the per-entity services around one store.
type Services struct {
	Clients   *ClientService
	Invoices  *InvoiceService
	Projects  *ProjectService
	Goals     *GoalService
	Dashboard *DashboardService
}

// Options tunes the service layer; zero values fall back to defaults.
type Options struct {
	CacheTTL     time.Duration
	CacheEntries int
	Now          func() time.Time
}

func New(recs *records.Collections, syncer *revsync.Syncer, b *bus.Bus, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 100
	}

	return &Services{
		Clients:   &ClientService{records: recs, syncer: syncer, bus: b, now: opts.Now},
		Invoices:  &InvoiceService{records: recs, syncer: syncer, bus: b, now: opts.Now},
		Projects:  &ProjectService{records: recs, bus: b, now: opts.Now},
		Goals:     &GoalService{records: recs, bus: b, now: opts.Now},
		Dashboard: &DashboardService{
			records: recs,
			syncer:  syncer,
			now:     opts.Now,
			cache:   cache.NewLRU[DashboardSnapshot](opts.CacheEntries, opts.CacheTTL),
		},
	}
}

// SnapshotCache exposes the dashboard cache for expiry sweeps.
func (s *Services) SnapshotCache() *cache.LRU[DashboardSnapshot] {
	return s.Dashboard.cache
}
