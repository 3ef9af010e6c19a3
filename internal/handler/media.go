package handler

import (
	"net/http"

	"github.com/stylie-ai/stylist-platform/internal/middleware"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/service"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

// MediaHandler handles image generation and upload endpoints.
type MediaHandler struct {
	service *service.MediaService
	logger  *logger.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(svc *service.MediaService, log *logger.Logger) *MediaHandler {
	return &MediaHandler{service: svc, logger: log}
}

// GenerateImage handles POST /api/v1/image
func (h *MediaHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.GenerateImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	url, err := h.service.GenerateImage(ctx, middleware.GetUserID(ctx), req.Prompt)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ImageResponse{URL: url})
}

// UploadProfilePhoto handles POST /api/v1/upload/profile-photo
func (h *MediaHandler) UploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.UploadImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	url, err := h.service.UploadProfilePhoto(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), req.ImageBase64)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ImageResponse{Success: true, URL: url})
}

// UploadWardrobeItem handles POST /api/v1/upload/wardrobe-item
func (h *MediaHandler) UploadWardrobeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.UploadImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	url, err := h.service.UploadWardrobeImage(ctx, middleware.GetUserID(ctx), req.ImageBase64)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ImageResponse{Success: true, URL: url})
}
