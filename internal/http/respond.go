package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps domain and storage errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, core.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"url", r.URL.Path,
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
		core.ErrEmptyFamily,
		core.ErrInvalidDate,
		core.ErrInvalidMonth,
		core.ErrUnknownPayment,
		core.ErrUnknownStatus,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
