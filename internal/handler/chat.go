// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stylie-ai/stylist-platform/internal/middleware"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/service"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.SendChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if req.ChatID != "" {
		if err := middleware.ValidateDocumentID("chatId", req.ChatID); err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
	}

	res, err := h.service.Send(ctx, userID, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// List handles GET /api/v1/chat
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chats, err := h.service.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if chats == nil {
		chats = []model.Session{}
	}

	writeJSON(w, http.StatusOK, model.ListChatsResponse{Chats: chats})
}

// Delete handles DELETE /api/v1/chat/{chatId}
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chatID := chi.URLParam(r, "chatId")

	if err := middleware.ValidateDocumentID("chatId", chatID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(ctx, middleware.GetUserID(ctx), chatID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
