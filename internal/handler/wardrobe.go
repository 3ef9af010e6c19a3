package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stylie-ai/stylist-platform/internal/middleware"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/service"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

// WardrobeHandler handles wardrobe endpoints.
type WardrobeHandler struct {
	service *service.WardrobeService
	logger  *logger.Logger
}

// NewWardrobeHandler creates a new wardrobe handler.
func NewWardrobeHandler(svc *service.WardrobeService, log *logger.Logger) *WardrobeHandler {
	return &WardrobeHandler{service: svc, logger: log}
}

// Add handles POST /api/v1/wardrobe
func (h *WardrobeHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AddWardrobeItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if req.Item.ID != "" {
		if err := middleware.ValidateDocumentID("item id", req.Item.ID); err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
	}

	item, err := h.service.Add(ctx, middleware.GetUserID(ctx), req.Item)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// List handles GET /api/v1/wardrobe
func (h *WardrobeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.service.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListWardrobeResponse{Items: items})
}

// Delete handles DELETE /api/v1/wardrobe/{itemId}
func (h *WardrobeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := chi.URLParam(r, "itemId")

	if err := middleware.ValidateDocumentID("item id", itemID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(ctx, middleware.GetUserID(ctx), itemID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
