package services

import (
	"context"
	"time"

	"bkcopilot/internal/bus"
	"bkcopilot/internal/cache"
	"bkcopilot/internal/log"
	"bkcopilot/internal/metrics"
	"bkcopilot/internal/records"
	"bkcopilot/internal/revsync"
)

// AnnualGoalView is the dashboard's annual target card: the first financial
// goal in collection order, measured against all-time paid revenue.
type AnnualGoalView struct {
	Label     string  `json:"libelle"`
	Target    int64   `json:"objectif"`
	Actual    int64   `json:"valeurActuelle"`
	Progress  float64 `json:"progression"`
	Completed bool    `json:"atteint"`
}

// DashboardSnapshot is the aggregated home payload. Every figure degrades to
// zero or an empty series when its source collection is missing or corrupt.
type DashboardSnapshot struct {
	Revenue          int64                `json:"caTotal"`
	RevenueDeltaPct  float64              `json:"variationCA"`
	ActiveClients    int                  `json:"clientsActifs"`
	ClientsDelta     int                  `json:"variationClients"`
	AnnualGoal       *AnnualGoalView      `json:"objectifAnnuel,omitempty"`
	MonthlyRevenue   []metrics.MonthPoint `json:"caParMois"`
	MonthlyNewClients []metrics.MonthPoint `json:"nouveauxClientsParMois"`
}

const snapshotKey = "dashboard"

// DashboardService aggregates the four collections into the home snapshot,
// cached until the next collection change or TTL expiry.
type DashboardService struct {
	records *records.Collections
	syncer  *revsync.Syncer
	now     func() time.Time
	cache   *cache.LRU[DashboardSnapshot]
}

// Snapshot returns the cached aggregate, computing it on a miss. The revenue
// sync runs before computing so the denormalized totals are fresh.
func (s *DashboardService) Snapshot(ctx context.Context) (DashboardSnapshot, error) {
	if snap, ok := s.cache.Get(snapshotKey); ok {
		log.FromContext(ctx).DebugContext(ctx, "Dashboard snapshot cache hit")
		return snap, nil
	}

	if err := s.syncer.Run(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Revenue sync on dashboard load failed", log.FieldError, err)
	}

	clients, err := s.records.Clients(ctx)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	invoices, err := s.records.Invoices(ctx)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	goals, err := s.records.Goals(ctx)
	if err != nil {
		return DashboardSnapshot{}, err
	}

	now := s.now()
	snap := DashboardSnapshot{
		MonthlyRevenue:    metrics.MonthlyRevenue(now, invoices),
		MonthlyNewClients: metrics.MonthlyNewClients(now, clients),
	}
	snap.Revenue, snap.RevenueDeltaPct = metrics.RevenueDelta(now, invoices)
	snap.ActiveClients, snap.ClientsDelta = metrics.ActiveClientsDelta(now, clients)

	if g, ok := metrics.AnnualFinancialGoal(goals); ok {
		paid := metrics.RevenueCollected(invoices)
		snap.AnnualGoal = &AnnualGoalView{
			Label:     g.Label,
			Target:    g.Target,
			Actual:    paid,
			Progress:  metrics.GoalProgress(paid, g.Target),
			Completed: metrics.GoalCompleted(paid, g.Target),
		}
	}

	s.cache.Set(snapshotKey, snap)
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (s *DashboardService) Invalidate() {
	s.cache.Purge()
}

// WatchBus purges the snapshot cache on every collection change until ctx is
// done. Run it in its own goroutine.
func (s *DashboardService) WatchBus(ctx context.Context, b *bus.Bus) {
	events, cancel := b.Subscribe(16)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.cache.Purge()
			log.FromContext(ctx).DebugContext(ctx, "Dashboard snapshot invalidated",
				log.FieldCollection, ev.Collection, log.FieldEvent, bus.EventName(ev.Collection))
		}
	}
}
