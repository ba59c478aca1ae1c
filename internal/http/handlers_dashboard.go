package http

import "net/http"

// handleDashboard serves the aggregated home snapshot.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.services.Dashboard.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
