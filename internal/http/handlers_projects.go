package http

import (
	"net/http"

	"bkcopilot/internal/core"
	"bkcopilot/internal/store"
)

type projectRequest struct {
	Name        string `json:"nom" validate:"required"`
	Company     string `json:"entreprise"`
	Status      string `json:"statut" validate:"omitempty,oneof=Actif Prospect Terminé"`
	Value       int64  `json:"valeur" validate:"gte=0"`
	StartDate   string `json:"dateDebut" validate:"omitempty,datetime=02/01/2006"`
	EndDate     string `json:"dateFin" validate:"omitempty,datetime=02/01/2006"`
	Responsible string `json:"responsable"`
	Comment     string `json:"commentaire"`
}

func (req projectRequest) toProject() core.Project {
	return core.Project{
		Name:        req.Name,
		Company:     req.Company,
		Status:      core.ProjectStatus(req.Status),
		Value:       req.Value,
		StartDate:   core.Date(req.StartDate),
		EndDate:     core.Date(req.EndDate),
		Responsible: req.Responsible,
		Comment:     req.Comment,
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Projects.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.services.Projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !s.readBody(w, r, &req) {
		return
	}

	created, err := s.services.Projects.Create(r.Context(), req.toProject())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyProjects, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !s.readBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	updated, err := s.services.Projects.Update(r.Context(), id, req.toProject())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyProjects, id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.services.Projects.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	triggerHeader(w, store.KeyProjects, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Projects.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
