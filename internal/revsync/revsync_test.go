package revsync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

func TestRecomputeIsStatusBlind(t *testing.T) {
	clients := []core.Client{{Company: "Acme"}}
	invoices := []core.Invoice{
		{Company: "Acme", Price: 1000, Status: core.InvoicePaid},
		{Company: "Acme", Price: 500, Status: core.InvoiceUnpaid},
	}

	synced := Recompute(clients, invoices)
	require.Len(t, synced, 1)
	assert.Equal(t, int64(1500), synced[0].Revenue,
		"unpaid invoices count toward the client total")
}

func TestRecomputeMatchIsCaseSensitive(t *testing.T) {
	clients := []core.Client{{Company: "Acme"}}
	invoices := []core.Invoice{
		{Company: "acme", Price: 1000, Status: core.InvoicePaid},
		{Company: "Acme ", Price: 700, Status: core.InvoicePaid},
		{Company: "Acme", Price: 300, Status: core.InvoicePaid},
	}

	synced := Recompute(clients, invoices)
	assert.Equal(t, int64(300), synced[0].Revenue,
		"only the exact spelling matches, no normalization")
}

func TestRecomputeClearsStaleRevenue(t *testing.T) {
	// deleting a client's last invoice must bring its total back to zero
	clients := []core.Client{{Company: "Acme", Revenue: 9000}}
	synced := Recompute(clients, nil)
	assert.Zero(t, synced[0].Revenue)
}

func TestRecomputeMultipleClients(t *testing.T) {
	clients := []core.Client{
		{Company: "Acme", Revenue: 1},
		{Company: "Globex", Revenue: 2},
		{Company: "Initech", Revenue: 3},
	}
	invoices := []core.Invoice{
		{Company: "Acme", Price: 100, Status: core.InvoicePaid},
		{Company: "Globex", Price: 200, Status: core.InvoiceUnpaid},
		{Company: "Globex", Price: 50, Status: core.InvoicePaid},
	}

	synced := Recompute(clients, invoices)
	assert.Equal(t, int64(100), synced[0].Revenue)
	assert.Equal(t, int64(250), synced[1].Revenue)
	assert.Zero(t, synced[2].Revenue)
}

func TestRecomputeDoesNotMutateInput(t *testing.T) {
	clients := []core.Client{{Company: "Acme", Revenue: 42}}
	_ = Recompute(clients, []core.Invoice{{Company: "Acme", Price: 7}})
	assert.Equal(t, int64(42), clients[0].Revenue)
}

func TestSyncerRunPersists(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	clientsJSON, _ := json.Marshal([]core.Client{{ID: "1", Company: "Acme"}})
	invoicesJSON, _ := json.Marshal([]core.Invoice{
		{ID: "2", Company: "Acme", Price: 1200, Status: core.InvoiceUnpaid},
	})
	require.NoError(t, st.Set(ctx, store.KeyClients, clientsJSON))
	require.NoError(t, st.Set(ctx, store.KeyInvoices, invoicesJSON))

	require.NoError(t, New(st).Run(ctx))

	payload, _, _ := st.Get(ctx, store.KeyClients)
	var clients []core.Client
	require.NoError(t, json.Unmarshal(payload, &clients))
	assert.Equal(t, int64(1200), clients[0].Revenue)
}

func TestSyncerRunNoOpsOnCorruptClients(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, st.Set(ctx, store.KeyClients, []byte(`{broken`)))
	invoicesJSON, _ := json.Marshal([]core.Invoice{{Company: "Acme", Price: 1}})
	require.NoError(t, st.Set(ctx, store.KeyInvoices, invoicesJSON))

	require.NoError(t, New(st).Run(ctx), "unreadable clients make the sync a silent no-op")

	payload, _, _ := st.Get(ctx, store.KeyClients)
	assert.Equal(t, `{broken`, string(payload), "the stored payload is left untouched")
}

func TestSyncerRunMissingInvoices(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	clientsJSON, _ := json.Marshal([]core.Client{{Company: "Acme", Revenue: 500}})
	require.NoError(t, st.Set(ctx, store.KeyClients, clientsJSON))

	require.NoError(t, New(st).Run(ctx))

	payload, _, _ := st.Get(ctx, store.KeyClients)
	var clients []core.Client
	require.NoError(t, json.Unmarshal(payload, &clients))
	assert.Zero(t, clients[0].Revenue, "no invoice collection means every total recomputes to zero")
}
