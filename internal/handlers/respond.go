// Package handlers holds the HTTP handlers for the quiz API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eduquest/internal/contextutil"
	"eduquest/internal/service"
	"eduquest/internal/storage"
)

// DefaultUserID stands in when a request does not identify the user.
const DefaultUserID = "testuser"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger := contextutil.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, r, statusCode, ErrorResponse{Error: message})
}

// writeServiceError maps service errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(r.Context())
	logger.ErrorContext(r.Context(), defaultMsg, "error", err)

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, r, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrNoValidQuestions), errors.Is(err, service.ErrExternalService):
		writeError(w, r, http.StatusBadGateway, "External service error")
	default:
		writeError(w, r, http.StatusInternalServerError, defaultMsg)
	}
}
