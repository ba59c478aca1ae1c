package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bkcopilot/internal/core"
)

func TestComputeClientStats(t *testing.T) {
	clients := []core.Client{
		{Company: "A", Revenue: 3000, LastActivity: "02/06/2025"},
		{Company: "B", Revenue: 1000, LastActivity: "15/05/2025"},
		{Company: "C", Revenue: 2000, LastActivity: "30/06/2025"},
	}
	stats := ComputeClientStats(now, clients)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.NewThisMonth)
	assert.Equal(t, int64(2000), stats.AverageBasket)
}

func TestComputeClientStatsEmpty(t *testing.T) {
	stats := ComputeClientStats(now, nil)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.NewThisMonth)
	assert.Zero(t, stats.AverageBasket, "empty collection must not divide by zero")
}

func TestComputeFinanceStats(t *testing.T) {
	invoices := []core.Invoice{
		{Status: core.InvoicePaid, Price: 1000, Date: "10/06/2025"},
		{Status: core.InvoiceUnpaid, Price: 500, Date: "12/06/2025"},  // outstanding, current month
		{Status: core.InvoiceUnpaid, Price: 300, Date: "01/04/2025"},  // outstanding and overdue
		{Status: core.InvoiceUnpaid, Price: 50, Date: "pas une date"}, // outstanding, never overdue
	}
	stats := ComputeFinanceStats(now, invoices)
	assert.Equal(t, int64(1000), stats.Collected)
	assert.Equal(t, int64(850), stats.Outstanding)
	assert.Equal(t, int64(300), stats.Overdue)
	assert.Equal(t, int64(-150), stats.Net)
}

// The finance "collected" figure is paid-only while the client revenue sync
// (revsync package) is status-blind. Both behaviors are intentional and the
// mismatch is visible whenever unpaid invoices exist.
func TestCollectedIsPaidOnly(t *testing.T) {
	invoices := []core.Invoice{
		{Company: "Acme", Status: core.InvoicePaid, Price: 1000, Date: "10/06/2025"},
		{Company: "Acme", Status: core.InvoiceUnpaid, Price: 500, Date: "11/06/2025"},
	}
	assert.Equal(t, int64(1000), RevenueCollected(invoices))
}

func TestComputeProjectStats(t *testing.T) {
	projects := []core.Project{
		{Name: "Refonte", Status: core.ProjectActive, Value: 12000},
		{Name: "Audit", Status: core.ProjectProspect, Value: 3000},
		{Name: "Site", Status: core.ProjectCompleted, Value: 5000},
	}
	stats := ComputeProjectStats(projects)
	assert.Equal(t, int64(20000), stats.TotalValue, "total value counts every status")
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Prospect)
}
