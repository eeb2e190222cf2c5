package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/ai"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/config"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/devices"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/history"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/observability/logging"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/observability/metrics"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/persona"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/service"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/storage"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/stream"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/tokens"
	transport "github.com/NamaiBest/SDG-Chat-Bot/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	logger := logging.NewLogger(logging.Config{
		ServiceName: "sdgbot",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)
	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("sdgbot")

	store, err := storage.Open(cfg)
	if err != nil {
		logger.Error("open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	registry := devices.NewRegistry(store)
	streams := stream.NewManager(registry, cfg.SessionTTL)

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.SweepSchedule, streams.Sweep); err != nil {
		logger.Error("schedule session sweep", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	client := ai.New(ai.Config{
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		APIKey:  cfg.GeminiAPIKey,
		Timeout: cfg.AITimeout,
	})

	personas := persona.NewLibrary(cfg.PersonasDir)
	hist := history.New(store, cfg.ContextLimit)
	chat := service.NewChatService(store, hist, personas, client)
	audio := service.NewAudioService(client, streams)
	signer := tokens.NewSigner([]byte(cfg.SigningKey), cfg.Issuer, cfg.TokenTTL)

	router := transport.NewRouter(transport.Deps{
		Chat:        chat,
		Audio:       audio,
		Store:       store,
		Devices:     registry,
		Streams:     streams,
		Personas:    personas,
		Models:      client,
		Signer:      signer,
		CORSOrigins: splitOrigins(cfg.CORSOrigins),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("listening", "addr", srv.Addr, "backend", backendName(cfg))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func backendName(cfg config.Config) string {
	if cfg.UseDatabase() {
		return "postgres"
	}
	return "files"
}
