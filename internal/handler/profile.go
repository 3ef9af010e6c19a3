package handler

import (
	"net/http"

	"github.com/stylie-ai/stylist-platform/internal/middleware"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/service"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc *service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, logger: log}
}

// Upsert handles POST /api/v1/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.Profile
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	saved, err := h.service.Upsert(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ProfileResponse{Success: true, Profile: saved})
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.service.Get(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
