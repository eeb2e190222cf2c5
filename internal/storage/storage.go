package storage

import (
	"context"
	"log/slog"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/config"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/password"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/storage/filestore"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/storage/relstore"
)

// Backend is the uniform contract over the two interchangeable persistence
// implementations. Exactly one concrete implementation is active per process,
// chosen once at startup. I/O failures are caught inside the implementation,
// logged, and surfaced as boolean/absent returns; nothing raises past this
// layer, since the request handlers cannot otherwise avoid crashing the
// turn-handling path.
type Backend interface {
	// AppendMessage durably appends one turn for (username, mode), assigning
	// the write-time timestamp, and attaches the detailed memory when present.
	AppendMessage(ctx context.Context, t domain.Turn) bool

	// LoadConversation returns the conversation for (username, mode), or
	// ok=false when that pair has never saved a turn. An absent conversation
	// is distinct from an empty one.
	LoadConversation(ctx context.Context, username string, mode domain.Mode) (*domain.Conversation, bool)

	RegisterUser(ctx context.Context, username, secret string) domain.AuthResult
	VerifyLogin(ctx context.Context, username, secret string) domain.AuthResult

	// Device registry persistence. All three are best-effort: a storage
	// failure downgrades to absent/false since device liveness is advisory.
	UpsertDevice(ctx context.Context, d domain.Device) bool
	DeviceOwner(ctx context.Context, deviceID string) (string, bool)
	TouchDevice(ctx context.Context, deviceID string)

	Close() error
}

// Open selects and constructs the single active backend. The configuration
// branch lives here and nowhere else.
func Open(cfg config.Config) (Backend, error) {
	pw := password.NewArgon2id()
	if cfg.UseDatabase() {
		slog.Info("storage: using relational backend")
		return relstore.Open(cfg.DatabaseURL, pw)
	}
	slog.Info("storage: using file backend", "dir", cfg.MemoryDir)
	return filestore.Open(cfg.MemoryDir, pw)
}
