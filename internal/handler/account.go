package handler

import (
	"net/http"

	"github.com/stylie-ai/stylist-platform/internal/middleware"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/service"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

// AccountHandler handles account endpoints.
type AccountHandler struct {
	service *service.AccountService
	logger  *logger.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(svc *service.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{service: svc, logger: log}
}

// Link handles POST /api/v1/account/link
func (h *AccountHandler) Link(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.LinkAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if req.OldUserID != "" {
		if err := middleware.ValidateDocumentID("oldUserId", req.OldUserID); err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
	}

	res, err := h.service.Link(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
