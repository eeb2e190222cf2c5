package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Storage. Presence of DatabaseURL selects the relational backend;
	// absence selects JSON files under MemoryDir.
	DatabaseURL string
	MemoryDir   string

	// Personas
	PersonasDir string

	// Generative-AI boundary
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	AITimeout     time.Duration

	// Context aggregation
	ContextLimit int

	// Streaming sessions
	SessionTTL    time.Duration
	SweepSchedule string

	// Login tokens
	SigningKey string
	Issuer     string
	TokenTTL   time.Duration

	// HTTP
	Addr        string
	CORSOrigins string
}

func Load() Config {
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MemoryDir:   getenv("MEMORY_DIR", "memory"),

		PersonasDir: getenv("PERSONAS_DIR", "personas"),

		GeminiAPIKey:  must("GEMINI_API_KEY"),
		GeminiBaseURL: getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		AITimeout:     getdur("AI_TIMEOUT", 30*time.Second),

		ContextLimit: getint("CONTEXT_LIMIT", 20),

		SessionTTL:    getdur("SESSION_TTL", 5*time.Minute),
		SweepSchedule: getenv("SESSION_SWEEP_SCHEDULE", "@every 1m"),

		SigningKey: getenv("SIGNING_KEY", "dev-insecure-signing-key"),
		Issuer:     getenv("ISSUER", "sdg-chat-bot"),
		TokenTTL:   getdur("TOKEN_TTL", 24*time.Hour),

		Addr:        getenv("ADDR", ":"+getenv("PORT", "8000")),
		CORSOrigins: getenv("CORS_ORIGINS", ""),
	}
}

// UseDatabase reports whether the relational backend is selected. The branch
// is consolidated here and consulted once, at construction time.
func (c Config) UseDatabase() bool { return c.DatabaseURL != "" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("missing required env", "key", k)
		os.Exit(1)
	}
	return v
}
