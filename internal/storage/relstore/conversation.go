package relstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"

	"gorm.io/gorm"
)

// AppendMessage inserts the turn row and, when present, its detailed memory
// in one transaction. Failures are logged and reported as false.
func (s *Store) AppendMessage(ctx context.Context, t domain.Turn) bool {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := conversationRow{
			SessionID:   t.SessionID,
			Username:    t.Username,
			Mode:        string(t.Mode),
			UserMessage: t.UserText,
			BotResponse: t.AssistantText,
			HasMedia:    t.HasMedia,
			MediaType:   mediaTypePtr(t.MediaKind),
			Timestamp:   now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if t.Memory != nil && t.HasMedia {
			ts := now
			if parsed, err := time.Parse(time.RFC3339Nano, t.Memory.Timestamp); err == nil {
				ts = parsed
			}
			mem := detailedMemoryRow{
				SessionID:        t.SessionID,
				MediaType:        mediaTypePtr(t.Memory.MediaKind),
				Timestamp:        ts,
				DetailedAnalysis: t.Memory.RawAnalysis,
				ExtractedMemory:  t.Memory.Extraction,
			}
			if err := tx.Create(&mem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("relstore: append message", "username", t.Username, "mode", t.Mode, "error", err)
		return false
	}
	return true
}

// LoadConversation assembles the (username, mode) history across all
// sessions, plus the detailed memories joined through that mode's session ids.
func (s *Store) LoadConversation(ctx context.Context, username string, mode domain.Mode) (*domain.Conversation, bool) {
	var rows []conversationRow
	err := s.db.WithContext(ctx).
		Where("username = ? AND mode = ?", username, string(mode)).
		Order("timestamp asc").
		Find(&rows).Error
	if err != nil {
		slog.Error("relstore: load conversation", "username", username, "mode", mode, "error", err)
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}

	// Memories are joined through session ids scoped to this mode so that a
	// load never surfaces memories written under the other mode; the file
	// backend keeps them inside the per-(username, mode) document.
	sessionIDs := s.db.WithContext(ctx).
		Model(&conversationRow{}).
		Distinct("session_id").
		Where("username = ? AND mode = ?", username, string(mode))

	var mems []detailedMemoryRow
	if err := s.db.WithContext(ctx).
		Where("session_id IN (?)", sessionIDs).
		Order("timestamp asc").
		Find(&mems).Error; err != nil {
		slog.Error("relstore: load detailed memories", "username", username, "error", err)
		mems = nil
	}

	conv := &domain.Conversation{
		Username:         username,
		Mode:             mode,
		Messages:         make([]domain.Message, 0, len(rows)),
		DetailedMemories: make([]domain.DetailedMemory, 0, len(mems)),
	}
	for _, r := range rows {
		conv.Messages = append(conv.Messages, domain.Message{
			Timestamp:     r.Timestamp.UTC().Format(time.RFC3339Nano),
			SessionID:     r.SessionID,
			UserText:      r.UserMessage,
			AssistantText: r.BotResponse,
			HasMedia:      r.HasMedia,
			MediaKind:     mediaKind(r.MediaType),
		})
	}
	for _, m := range mems {
		conv.DetailedMemories = append(conv.DetailedMemories, domain.DetailedMemory{
			Timestamp:   m.Timestamp.UTC().Format(time.RFC3339Nano),
			MediaKind:   mediaKind(m.MediaType),
			RawAnalysis: m.DetailedAnalysis,
			Extraction:  m.ExtractedMemory,
		})
	}
	return conv, true
}
