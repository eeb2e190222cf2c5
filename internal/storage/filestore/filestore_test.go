package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/password"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), password.NewArgon2id())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

// The persistence contract is shared with the relational backend; both run
// the same suite.
func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storagetest.Backend {
		return newTestStore(t)
	})
}

func TestAppendAttachesDetailedMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok := s.AppendMessage(ctx, domain.Turn{
		Username:      "alice",
		Mode:          domain.ModeAssistant,
		UserText:      "what do you see?",
		AssistantText: "A desk with a laptop.",
		HasMedia:      true,
		MediaKind:     domain.MediaImage,
		Memory:        &domain.DetailedMemory{MediaKind: domain.MediaImage, RawAnalysis: "A desk with a laptop."},
	})
	if !ok {
		t.Fatalf("append failed")
	}

	conv, ok := s.LoadConversation(ctx, "alice", domain.ModeAssistant)
	if !ok || len(conv.DetailedMemories) != 1 {
		t.Fatalf("detailed memory not stored: %+v", conv)
	}
	if conv.DetailedMemories[0].Timestamp == "" {
		t.Fatalf("memory timestamp not backfilled")
	}
}

func TestLoadConversationLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, password.NewArgon2id())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	legacy := domain.Conversation{
		Username: "bob",
		Messages: []domain.Message{{Timestamp: "2025-06-01T10:00:00Z", UserText: "old question", AssistantText: "old answer"}},
	}
	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bob.json"), data, 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	conv, ok := s.LoadConversation(context.Background(), "bob", domain.ModeSustainability)
	if !ok {
		t.Fatalf("legacy conversation not found")
	}
	if len(conv.Messages) != 1 || conv.Messages[0].UserText != "old question" {
		t.Fatalf("unexpected legacy conversation: %+v", conv)
	}

	// A mode-scoped save takes precedence over the legacy file afterwards.
	if !s.AppendMessage(context.Background(), domain.Turn{Username: "bob", Mode: domain.ModeSustainability, UserText: "new question", AssistantText: "new answer"}) {
		t.Fatalf("append failed")
	}
	conv, ok = s.LoadConversation(context.Background(), "bob", domain.ModeSustainability)
	if !ok {
		t.Fatalf("conversation missing")
	}
	for _, m := range conv.Messages {
		if m.UserText == "old question" {
			t.Fatalf("mode-scoped load should not merge the legacy file: %+v", conv.Messages)
		}
	}
}

func TestDeviceOwnerHidesInactive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if !s.UpsertDevice(ctx, domain.Device{DeviceID: "esp-2", Username: "alice"}) {
		t.Fatalf("upsert failed")
	}

	devices, err := s.loadDevices()
	if err != nil {
		t.Fatalf("load devices: %v", err)
	}
	devices["esp-2"].IsActive = false
	if err := s.saveDevices(devices); err != nil {
		t.Fatalf("save devices: %v", err)
	}

	if _, ok := s.DeviceOwner(ctx, "esp-2"); ok {
		t.Fatalf("deactivated device should resolve to absent")
	}
}
