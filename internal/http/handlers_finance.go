package http

import (
	"net/http"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

// invoiceRequest is the create/update payload. The invoice number and the
// subscription flag are assigned server-side, never accepted from the caller.
type invoiceRequest struct {
	Company string `json:"entreprise" validate:"required"`
	Status  string `json:"statut" validate:"omitempty,oneof=Payé 'Non payé'"`
	Date    string `json:"date" validate:"omitempty,datetime=02/01/2006"`
	Price   int64  `json:"prix" validate:"gte=0"`
}

func (req invoiceRequest) toInvoice() core.Invoice {
	return core.Invoice{
		Company: req.Company,
		Status:  core.InvoiceStatus(req.Status),
		Date:    core.Date(req.Date),
		Price:   req.Price,
	}
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.services.Invoices.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.services.Invoices.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !s.readBody(w, r, &req) {
		return
	}

	created, err := s.services.Invoices.Create(r.Context(), req.toInvoice())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyInvoices, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !s.readBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	updated, err := s.services.Invoices.Update(r.Context(), id, req.toInvoice())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyInvoices, id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.services.Invoices.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyInvoices, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFinanceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Invoices.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
