package filestore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

// AppendMessage appends one turn to the per-(username, mode) document,
// creating it lazily on first save. Failures are logged and reported as
// false; they never propagate.
func (s *Store) AppendMessage(ctx context.Context, t domain.Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.conversationPath(t.Username, t.Mode)
	conv := domain.Conversation{
		Username:         t.Username,
		Mode:             t.Mode,
		Messages:         []domain.Message{},
		DetailedMemories: []domain.DetailedMemory{},
	}
	if err := readJSON(path, &conv); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("filestore: read conversation", "path", path, "error", err)
		return false
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	conv.Messages = append(conv.Messages, domain.Message{
		Timestamp:     now,
		SessionID:     t.SessionID,
		UserText:      t.UserText,
		AssistantText: t.AssistantText,
		HasMedia:      t.HasMedia,
		MediaKind:     t.MediaKind,
	})
	if t.Memory != nil && t.HasMedia {
		mem := *t.Memory
		if mem.Timestamp == "" {
			mem.Timestamp = now
		}
		conv.DetailedMemories = append(conv.DetailedMemories, mem)
	}

	if err := writeJSON(path, &conv); err != nil {
		slog.Error("filestore: write conversation", "path", path, "error", err)
		return false
	}
	return true
}

// LoadConversation returns the stored document for (username, mode), falling
// back to the legacy flat layout. ok=false means that pair has never saved.
func (s *Store) LoadConversation(ctx context.Context, username string, mode domain.Mode) (*domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conv domain.Conversation
	path := s.conversationPath(username, mode)
	err := readJSON(path, &conv)
	if err == nil {
		return &conv, true
	}
	if !errors.Is(err, os.ErrNotExist) {
		slog.Error("filestore: load conversation", "path", path, "error", err)
		return nil, false
	}

	legacy := s.legacyPath(username)
	if err := readJSON(legacy, &conv); err == nil {
		return &conv, true
	} else if !errors.Is(err, os.ErrNotExist) {
		slog.Error("filestore: load legacy conversation", "path", legacy, "error", err)
	}
	return nil, false
}
