package metrics

import (
	"math"
	"time"

	"bkcopilot/internal/core"
)

type (
	// ClientStats backs the summary cards of the clients page.
	ClientStats struct {
		Total         int   `json:"total"`
		NewThisMonth  int   `json:"nouveaux"`
		AverageBasket int64 `json:"panierMoyen"`
	}

	// FinanceStats backs the summary cards of the finance page. Collected is
	// paid-only while the per-client revenue sync is status-blind; the two
	// figures disagree whenever unpaid invoices exist, and that mismatch is
	// kept as-is (see the revsync package).
	FinanceStats struct {
		Collected   int64 `json:"revenueEncaisse"`
		Outstanding int64 `json:"enAttente"`
		Overdue     int64 `json:"enRetard"`
		Net         int64 `json:"beneficeNet"`
	}

	// ProjectStats backs the summary cards of the projects page.
	ProjectStats struct {
		TotalValue int64 `json:"valeurTotal"`
		Active     int   `json:"actifs"`
		Prospect   int   `json:"prospects"`
	}
)

// ComputeClientStats counts clients, clients whose last activity falls in the
// current calendar month, and the rounded mean of denormalized revenues.
func ComputeClientStats(now time.Time, clients []core.Client) ClientStats {
	stats := ClientStats{Total: len(clients)}

	for _, c := range clients {
		if c.LastActivity.SameMonth(now.Year(), now.Month()) {
			stats.NewThisMonth++
		}
	}

	if len(clients) > 0 {
		var sum int64
		for _, c := range clients {
			sum += c.Revenue
		}
		stats.AverageBasket = int64(math.Round(float64(sum) / float64(len(clients))))
	}
	return stats
}

// ComputeFinanceStats derives the finance summary. Overdue is the unpaid
// amount dated before the current month; invoices with malformed dates are
// outstanding but never overdue.
func ComputeFinanceStats(now time.Time, invoices []core.Invoice) FinanceStats {
	stats := FinanceStats{
		Collected:   RevenueCollected(invoices),
		Outstanding: RevenueOutstanding(invoices),
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, f := range invoices {
		if f.Status != core.InvoiceUnpaid {
			continue
		}
		if t, ok := f.Date.Time(); ok && t.Before(monthStart) {
			stats.Overdue += f.Price
		}
	}

	stats.Net = stats.Collected - stats.Outstanding - stats.Overdue
	return stats
}

// ComputeProjectStats sums the value of every project regardless of status
// and counts active and prospect projects.
func ComputeProjectStats(projects []core.Project) ProjectStats {
	stats := ProjectStats{}
	for _, p := range projects {
		stats.TotalValue += p.Value
		switch p.Status {
		case core.ProjectActive:
			stats.Active++
		case core.ProjectProspect:
			stats.Prospect++
		}
	}
	return stats
}
