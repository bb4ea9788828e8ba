package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a service error kind to an HTTP status. This is the only
// place error kinds become status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch models.KindOf(err) {
	case models.KindBadRequest:
		status = http.StatusBadRequest
		msg = err.Error()
	case models.KindNotFound:
		status = http.StatusNotFound
		msg = err.Error()
	case models.KindForbidden:
		status = http.StatusForbidden
		msg = err.Error()
	case models.KindConflict:
		status = http.StatusConflict
		msg = err.Error()
	}

	writeJSON(w, status, errorResponse{Error: msg})
}
