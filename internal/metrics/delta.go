package metrics

import (
	"time"

	"bkcopilot/internal/core"
)

// RevenueCollected sums paid invoices with no date restriction.
func RevenueCollected(invoices []core.Invoice) int64 {
	var sum int64
	for _, f := range invoices {
		if f.Status == core.InvoicePaid {
			sum += f.Price
		}
	}
	return sum
}

// RevenueOutstanding sums unpaid invoices with no date restriction.
func RevenueOutstanding(invoices []core.Invoice) int64 {
	var sum int64
	for _, f := range invoices {
		if f.Status == core.InvoiceUnpaid {
			sum += f.Price
		}
	}
	return sum
}

// previousMonthBounds returns the full calendar month before the one
// containing now.
func previousMonthBounds(now time.Time) (start, end time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1)
}

// RevenueDelta returns the all-time paid revenue and its variation against
// the previous calendar month, as a percentage. The variation is defined as
// 0 when the previous month had no paid revenue; this deliberately floors
// the "infinite growth from zero" case instead of returning +Inf.
func RevenueDelta(now time.Time, invoices []core.Invoice) (current int64, variationPct float64) {
	current = RevenueCollected(invoices)

	start, end := previousMonthBounds(now)
	var previous int64
	for _, f := range invoices {
		if f.Status != core.InvoicePaid {
			continue
		}
		if f.Date.Between(start, end) {
			previous += f.Price
		}
	}

	if previous > 0 {
		variationPct = float64(current-previous) / float64(previous) * 100
	}
	return current, variationPct
}

// ActiveClientsDelta returns the count of active clients and the difference
// against active clients whose last activity fell in the previous calendar
// month.
func ActiveClientsDelta(now time.Time, clients []core.Client) (current int, delta int) {
	for _, c := range clients {
		if c.Status == core.StatusActive {
			current++
		}
	}

	start, end := previousMonthBounds(now)
	previous := 0
	for _, c := range clients {
		if c.Status != core.StatusActive {
			continue
		}
		if c.LastActivity.Between(start, end) {
			previous++
		}
	}

	return current, current - previous
}
