package handler

import (
	"net/http"
)

// Readiness reports whether an optional dependency is usable.
type Readiness interface {
	Ready() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	journal Readiness
}

// NewHealthHandler creates a new health handler. journal is nil when the turn
// journal is not configured.
func NewHealthHandler(journal Readiness) *HealthHandler {
	return &HealthHandler{
		journal: journal,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.journal != nil && !h.journal.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
