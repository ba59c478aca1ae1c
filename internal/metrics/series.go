// Package metrics computes every derived figure shown on the dashboard:
// monthly series, month-over-month deltas, goal progress and per-page stats.
// All functions are pure: they take a reference instant plus in-memory
// collections and hold no state.
package metrics

import (
	"time"

	"bkcopilot/internal/core"
)

// SeriesMonths is the fixed length of every trailing monthly series.
const SeriesMonths = 12

// MonthPoint is one bucket of a monthly series.
type MonthPoint struct {
	Month string `json:"month"`
	Value int64  `json:"value"`
}

// trailingMonths yields the start/end bounds of the 12 calendar months ending
// at the month containing now, oldest first.
func trailingMonths(now time.Time, fn func(start, end time.Time) int64) []MonthPoint {
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	points := make([]MonthPoint, 0, SeriesMonths)
	for i := 0; i < SeriesMonths; i++ {
		start := base.AddDate(0, -(SeriesMonths - 1 - i), 0)
		end := start.AddDate(0, 1, -1)
		points = append(points, MonthPoint{
			Month: core.MonthShortName(start.Month()),
			Value: fn(start, end),
		})
	}
	return points
}

// MonthlyRevenue buckets paid-invoice revenue into the 12 trailing months.
// Unpaid invoices and invoices with malformed dates are excluded. A month
// with no matches reports 0, so the series always has 12 points.
func MonthlyRevenue(now time.Time, invoices []core.Invoice) []MonthPoint {
	return trailingMonths(now, func(start, end time.Time) int64 {
		var sum int64
		for _, f := range invoices {
			if f.Status != core.InvoicePaid {
				continue
			}
			if f.Date.Between(start, end) {
				sum += f.Price
			}
		}
		return sum
	})
}

// MonthlyNewClients buckets clients into the 12 trailing months by their
// last-activity date.
func MonthlyNewClients(now time.Time, clients []core.Client) []MonthPoint {
	return trailingMonths(now, func(start, end time.Time) int64 {
		var n int64
		for _, c := range clients {
			if c.LastActivity.Between(start, end) {
				n++
			}
		}
		return n
	})
}
