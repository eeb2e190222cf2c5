package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/observability/metrics"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	res := h.deps.Store.RegisterUser(r.Context(), req.Username, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues("register", authResultLabel(res.OK)).Inc()
	if !res.OK {
		writeJSON(w, http.StatusConflict, dto.LoginResponse{Success: false, Error: res.Reason})
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Success: true, Username: res.Username})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	res := h.deps.Store.VerifyLogin(r.Context(), req.Username, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", authResultLabel(res.OK)).Inc()
	if !res.OK {
		writeJSON(w, http.StatusUnauthorized, dto.LoginResponse{Success: false, Error: res.Reason})
		return
	}

	resp := dto.LoginResponse{Success: true, Username: res.Username}
	if h.deps.Signer != nil {
		token, err := h.deps.Signer.Sign(res.Username)
		if err != nil {
			slog.Error("auth: token signing failed", "username", res.Username, "error", err)
		} else {
			resp.Token = token
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func authResultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
