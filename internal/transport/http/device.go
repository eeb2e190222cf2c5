package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/observability/metrics"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/stream"
)

func (h *Handler) handleDeviceRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.DeviceRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	req.Username = strings.TrimSpace(req.Username)
	if req.DeviceID == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "device_id and username are required")
		return
	}
	res := h.deps.Devices.Register(r.Context(), req.DeviceID, req.Username, req.DeviceName, req.MacAddress)
	if !res.OK {
		writeError(w, http.StatusInternalServerError, "device registration failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req dto.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeviceID == "" {
		writeError(w, http.StatusBadRequest, "device_id is required")
		return
	}
	state := stream.DeviceIdle
	if req.Status == "recording" {
		state = stream.DeviceRecording
	}
	res, known := h.deps.Streams.Heartbeat(r.Context(), req.DeviceID, state)
	if !known {
		writeError(w, http.StatusNotFound, "unknown device")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	id := h.deps.Streams.Start(req.Username, req.FrameRate)
	metrics.StreamSessionsStartedTotal.WithLabelValues().Inc()
	writeJSON(w, http.StatusOK, dto.SessionStartResponse{Success: true, SessionID: id})
}

func (h *Handler) handleFramePush(w http.ResponseWriter, r *http.Request) {
	var req dto.FramePushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if err := h.deps.Streams.PushFrame(req.SessionID, req.FrameNumber, req.Frame, req.Size); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.FramesReceivedTotal.WithLabelValues().Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if err := h.deps.Streams.End(req.SessionID, req.TotalFrames); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
