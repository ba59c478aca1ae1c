package http

import (
	"net/http"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

// clientRequest is the create/update payload. Denormalized fields (caTotal,
// projets) are not accepted: the sync owns them.
type clientRequest struct {
	Company      string `json:"entreprise" validate:"required"`
	Owner        string `json:"patron"`
	Phone        string `json:"telephone"`
	Email        string `json:"email" validate:"omitempty,email"`
	Status       string `json:"statut" validate:"required,oneof=Actif Inactif Prospect"`
	Subscription string `json:"abonnement" validate:"omitempty,oneof=Actif Inactif"`
	LastActivity string `json:"derniereActivite" validate:"omitempty,datetime=02/01/2006"`
}

func (req clientRequest) toClient() core.Client {
	return core.Client{
		Company:      req.Company,
		Owner:        req.Owner,
		Phone:        req.Phone,
		Email:        req.Email,
		Status:       core.ClientStatus(req.Status),
		Subscription: core.Subscription(req.Subscription),
		LastActivity: core.Date(req.LastActivity),
	}
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.services.Clients.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.services.Clients.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !s.readBody(w, r, &req) {
		return
	}

	created, err := s.services.Clients.Create(r.Context(), req.toClient())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyClients, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !s.readBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	updated, err := s.services.Clients.Update(r.Context(), id, req.toClient())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyClients, id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.services.Clients.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyClients, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClientStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Clients.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
