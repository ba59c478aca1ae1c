package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"bkcopilot/internal/bus"
	"bkcopilot/internal/core"
	"bkcopilot/internal/log"
	"bkcopilot/internal/services"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeServiceError maps service failures to HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err, log.FieldPath, r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	for _, sentinel := range []error{
		core.ErrEmptyCompany, core.ErrInvalidStatus, core.ErrNegativeAmount,
		core.ErrEmptyLabel, core.ErrInvalidGoalType, core.ErrEmptyProjectName,
		core.ErrEmptyInvoiceNum,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// triggerHeader sets the HX-Trigger header announcing a collection change,
// e.g. {"clientsUpdated": {"id": "1718445600000"}}.
func triggerHeader(w http.ResponseWriter, collection, id string) {
	detail := map[string]map[string]string{
		bus.EventName(collection): {},
	}
	if id != "" {
		detail[bus.EventName(collection)]["id"] = id
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}

// readBody decodes and validates the request body, writing the error response
// itself. Returns false when the handler should stop.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}
