package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
)

// AudioRunner turns uploaded audio into text, plus environmental context in
// assistant mode.
type AudioRunner interface {
	Transcribe(ctx context.Context, req dto.AudioRequest) (dto.AudioResponse, error)
}

func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	var req dto.AudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Audio == "" {
		writeError(w, http.StatusBadRequest, "audio is required")
		return
	}
	resp, err := h.deps.Audio.Transcribe(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
