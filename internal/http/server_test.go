package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkcopilot/internal/bus"
	"bkcopilot/internal/core"
	"bkcopilot/internal/records"
	"bkcopilot/internal/revsync"
	"bkcopilot/internal/services"
	"bkcopilot/internal/store"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	b := bus.New()
	svcs := services.New(records.New(st), revsync.New(st), b, services.Options{
		Now: func() time.Time { return testNow },
	})

	srv := NewServer(":0", svcs, Options{RateLimitPerMinute: 1000})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		require.NoError(t, srv.Shutdown(context.Background()))
	})
	return ts, st
}

func seed(t *testing.T, st *store.MemoryStore, key string, payload string) {
	t.Helper()
	require.NoError(t, st.Set(context.Background(), key, []byte(payload)))
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestListClientsEmptyCollectionIsEmptyArray(t *testing.T) {
	ts, _ := newTestServer(t)

	var clients []core.Client
	resp := getJSON(t, ts.URL+"/api/clients", &clients)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestCreateClientSetsTriggerHeader(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/clients", `{"entreprise":"Acme","statut":"Actif"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("HX-Trigger"), "clientsUpdated")

	var created core.Client
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme", created.Company)
}

func TestCreateClientValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing company", `{"statut":"Actif"}`, http.StatusUnprocessableEntity},
		{"bad status", `{"entreprise":"Acme","statut":"Nope"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"entreprise":"Acme","statut":"Actif","derniereActivite":"2025-06-15"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/clients", tt.body)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGetClientNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/clients/404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteClient(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, store.KeyClients, `[{"id":"c1","entreprise":"Acme","statut":"Actif"}]`)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/clients/c1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("HX-Trigger"), "clientsUpdated")

	var clients []core.Client
	getJSON(t, ts.URL+"/api/clients", &clients)
	assert.Empty(t, clients)
}

func TestCreateInvoiceAssignsNumberAndSyncsRevenue(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, store.KeyClients, `[{"id":"c1","entreprise":"Acme","statut":"Actif","caTotal":0}]`)

	resp := postJSON(t, ts.URL+"/api/factures", `{"entreprise":"Acme","statut":"Non payé","prix":750}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("HX-Trigger"), "facturesUpdated")

	var created core.Invoice
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "FAC-000001", created.Number)

	var clients []core.Client
	getJSON(t, ts.URL+"/api/clients", &clients)
	require.Len(t, clients, 1)
	assert.Equal(t, int64(750), clients[0].Revenue)
}

func TestFinanceStats(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, store.KeyInvoices, `[
		{"id":"1","numeroFacture":"FAC-000001","entreprise":"Acme","statut":"Payé","date":"10/05/2025","prix":2000},
		{"id":"2","numeroFacture":"FAC-000002","entreprise":"Acme","statut":"Non payé","date":"10/04/2025","prix":500},
		{"id":"3","numeroFacture":"FAC-000003","entreprise":"Acme","statut":"Non payé","date":"10/06/2025","prix":300}
	]`)

	var stats struct {
		Collected   int64 `json:"revenueEncaisse"`
		Outstanding int64 `json:"enAttente"`
		Overdue     int64 `json:"enRetard"`
	}
	resp := getJSON(t, ts.URL+"/api/factures/stats", &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2000), stats.Collected)
	assert.Equal(t, int64(800), stats.Outstanding)
	assert.Equal(t, int64(500), stats.Overdue, "only unpaid invoices before the current month")
}

func TestDashboardSnapshot(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, store.KeyClients, `[{"id":"c1","entreprise":"Acme","statut":"Actif","derniereActivite":"10/06/2025"}]`)
	seed(t, st, store.KeyInvoices, `[
		{"id":"1","numeroFacture":"FAC-000001","entreprise":"Acme","statut":"Payé","date":"10/05/2025","prix":2000},
		{"id":"2","numeroFacture":"FAC-000002","entreprise":"Acme","statut":"Payé","date":"05/06/2025","prix":3000}
	]`)
	seed(t, st, store.KeyGoals, `[{"id":"g1","type":"Financier","libelle":"CA annuel","objectif":20000}]`)

	var snap struct {
		Revenue    int64 `json:"caTotal"`
		Active     int   `json:"clientsActifs"`
		AnnualGoal *struct {
			Progress float64 `json:"progression"`
		} `json:"objectifAnnuel"`
		Series []struct {
			Month string `json:"month"`
			Value int64  `json:"value"`
		} `json:"caParMois"`
	}
	resp := getJSON(t, ts.URL+"/api/dashboard", &snap)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(5000), snap.Revenue)
	assert.Equal(t, 1, snap.Active)
	require.NotNil(t, snap.AnnualGoal)
	assert.InDelta(t, 25.0, snap.AnnualGoal.Progress, 0.001)
	assert.Len(t, snap.Series, 12)
}

func TestGoalsOverviewEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, store.KeyGoals, `[{"id":"g1","type":"Client","libelle":"10 clients","objectif":10}]`)
	seed(t, st, store.KeyClients, `[
		{"id":"c1","entreprise":"Acme","statut":"Actif"},
		{"id":"c2","entreprise":"Beta","statut":"Prospect"}
	]`)

	var overview struct {
		Goals []struct {
			Actual   int64   `json:"valeurActuelle"`
			Progress float64 `json:"progression"`
		} `json:"objectifs"`
		Total float64 `json:"progressionTotale"`
	}
	resp := getJSON(t, ts.URL+"/api/objectifs/stats", &overview)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, overview.Goals, 1)
	assert.Equal(t, int64(2), overview.Goals[0].Actual, "client goals count every status")
	assert.InDelta(t, 20.0, overview.Goals[0].Progress, 0.001)
}

func TestCorruptCollectionDegradesToEmpty(t *testing.T) {
	ts, st := newTestServer(t)
	seed(t, st, store.KeyProjects, `{broken`)

	var projects []core.Project
	resp := getJSON(t, ts.URL+"/api/projets", &projects)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, projects)
}

func TestSecurityHeadersApplied(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/dashboard")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	st := store.NewMemoryStore()
	b := bus.New()
	svcs := services.New(records.New(st), revsync.New(st), b, services.Options{
		Now: func() time.Time { return testNow },
	})
	srv := NewServer(":0", svcs, Options{RateLimitPerMinute: 2})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})

	var last int
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/clients", bytes.NewBufferString(`{"entreprise":"Acme","statut":"Actif"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// Reads stay unthrottled.
	resp, err := http.Get(ts.URL + "/api/clients")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
