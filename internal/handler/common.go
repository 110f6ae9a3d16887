// Package handler exposes the HTTP API. Handlers decode requests, call
// the service layer, and map domain errors to the JSON error envelope.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/choretrack/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// writeServiceError maps a service-layer error to a status and envelope.
// Domain errors carry their own code; anything else is logged and hidden
// behind a generic internal_error.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Code {
		case service.CodeValidation:
			writeError(w, http.StatusBadRequest, svcErr.Code, svcErr.Message)
		case service.CodeNotFound:
			writeError(w, http.StatusNotFound, svcErr.Code, svcErr.Message)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
