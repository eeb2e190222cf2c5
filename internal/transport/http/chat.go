package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
)

// ChatRunner executes one chat turn end to end.
type ChatRunner interface {
	Chat(ctx context.Context, req dto.ChatRequest) dto.ChatResponse
}

// ModelLister exposes the upstream model catalogue for debugging.
type ModelLister interface {
	ListModels(ctx context.Context) (json.RawMessage, error)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.Image == "" && req.Video == "" {
		writeError(w, http.StatusBadRequest, "message, image or video is required")
		return
	}
	resp := h.deps.Chat.Chat(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}
	h.writeConversation(w, r, chi.URLParam(r, "username"), mode)
}

// handleConversationLegacy serves the old single-segment route, which
// predates modes and always reads sustainability history.
func (h *Handler) handleConversationLegacy(w http.ResponseWriter, r *http.Request) {
	h.writeConversation(w, r, chi.URLParam(r, "username"), domain.ModeSustainability)
}

func (h *Handler) writeConversation(w http.ResponseWriter, r *http.Request, username string, mode domain.Mode) {
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	conv, ok := h.deps.Store.LoadConversation(r.Context(), username, mode)
	if !ok || conv == nil {
		conv = &domain.Conversation{Username: username, Mode: mode}
	}
	if conv.Messages == nil {
		conv.Messages = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":     conv.Username,
		"mode":         conv.Mode,
		"conversation": conv.Messages,
	})
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	if h.deps.Models == nil {
		writeError(w, http.StatusNotFound, "model listing unavailable")
		return
	}
	raw, err := h.deps.Models.ListModels(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
