// Package http mounts the public API surface over chi.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/devices"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/observability/middleware"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/persona"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/storage"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/stream"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/tokens"
)

type Deps struct {
	Chat        ChatRunner
	Audio       AudioRunner
	Store       storage.Backend
	Devices     *devices.Registry
	Streams     *stream.Manager
	Personas    *persona.Library
	Models      ModelLister
	Signer      *tokens.Signer
	CORSOrigins []string
}

type Handler struct {
	deps Deps
}

func NewRouter(deps Deps) http.Handler {
	h := &Handler{deps: deps}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(httprate.LimitByIP(300, 1*time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(deps.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithRequestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/chat", h.handleChat)
	r.Post("/audio-to-text", h.handleAudio)
	r.Get("/conversation/{username}", h.handleConversationLegacy)
	r.Get("/conversation/{mode}/{username}", h.handleConversation)

	r.Get("/personas", h.handlePersonas)
	r.Get("/personas/{name}", h.handlePersona)
	r.Get("/models", h.handleModels)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
	})

	r.Route("/esp32", func(r chi.Router) {
		r.Post("/register", h.handleDeviceRegister)
		r.Post("/heartbeat", h.handleHeartbeat)
		r.Post("/session/start", h.handleSessionStart)
		r.Post("/frame", h.handleFramePush)
		r.Post("/session/end", h.handleSessionEnd)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func originsIfSet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
