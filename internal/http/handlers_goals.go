package http

import (
	"net/http"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

// goalRequest is the create/update payload. The date range is stored for
// display only; progress is always measured against all-time figures.
type goalRequest struct {
	Type      string `json:"type" validate:"required,oneof=Financier Client"`
	Label     string `json:"libelle" validate:"required"`
	Target    int64  `json:"objectif" validate:"gte=0"`
	StartDate string `json:"dateDebut" validate:"omitempty,datetime=02/01/2006"`
	EndDate   string `json:"dateFin" validate:"omitempty,datetime=02/01/2006"`
}

func (req goalRequest) toGoal() core.Goal {
	return core.Goal{
		Type:      core.GoalType(req.Type),
		Label:     req.Label,
		Target:    req.Target,
		StartDate: core.Date(req.StartDate),
		EndDate:   core.Date(req.EndDate),
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.services.Goals.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.services.Goals.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !s.readBody(w, r, &req) {
		return
	}

	created, err := s.services.Goals.Create(r.Context(), req.toGoal())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyGoals, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !s.readBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	updated, err := s.services.Goals.Update(r.Context(), id, req.toGoal())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyGoals, id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.services.Goals.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyGoals, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoalsOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.services.Goals.Overview(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
