package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/middleware"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

const maxBodyBytes = 12 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Only
// unexpected errors are logged; their details never reach the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, apperr.UserMessage(err))
	case apperr.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, apperr.UserMessage(err))
	case apperr.IsUpstream(err):
		writeError(w, http.StatusBadGateway, apperr.UserMessage(err))
	default:
		log.WithRequest(middleware.GetCorrelationID(r.Context()), middleware.GetUserID(r.Context())).
			Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "an internal error occurred")
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.InvalidInput("invalid request body")
	}
	return nil
}
