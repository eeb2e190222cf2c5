// Package history builds the bounded conversation transcript included in
// generative-AI requests.
package history

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

const DefaultLimit = 20

// Loader is the slice of the storage backend the aggregator reads from.
type Loader interface {
	LoadConversation(ctx context.Context, username string, mode domain.Mode) (*domain.Conversation, bool)
}

// Aggregator merges a user's same-mode history with cross-mode history,
// orders it by timestamp, truncates it to the most recent entries and renders
// it as one text block. Output is deterministic for identical stored data.
type Aggregator struct {
	store Loader
	limit int
}

func New(store Loader, limit int) *Aggregator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Aggregator{store: store, limit: limit}
}

// Compose returns the rendered context for (username, mode), or the empty
// string when there is no history at all. Callers distinguish "no context"
// by emptiness, not by sentinel text.
//
// Cross-mode memory is one-directional: the personal-assistant mode also sees
// sustainability history, while sustainability never sees assistant history.
func (a *Aggregator) Compose(ctx context.Context, username string, mode domain.Mode) string {
	var all []domain.Message
	if conv, ok := a.store.LoadConversation(ctx, username, mode); ok {
		all = append(all, conv.Messages...)
	}
	if mode == domain.ModeAssistant {
		if conv, ok := a.store.LoadConversation(ctx, username, domain.ModeSustainability); ok {
			all = append(all, conv.Messages...)
		}
	}
	if len(all) == 0 {
		return ""
	}

	// Stores render timestamps with trimmed fractional seconds, so string
	// comparison mis-orders sub-second neighbors. Sort on the parsed instant;
	// a stable sort keeps the per-source order for missing or malformed ones.
	type stamped struct {
		msg domain.Message
		at  time.Time
		ok  bool
	}
	entries := make([]stamped, len(all))
	for i, m := range all {
		at, err := time.Parse(time.RFC3339Nano, m.Timestamp)
		entries[i] = stamped{msg: m, at: at, ok: err == nil}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ok || !entries[j].ok {
			return false
		}
		return entries[i].at.Before(entries[j].at)
	})

	if len(entries) > a.limit {
		entries = entries[len(entries)-a.limit:]
	}

	var b strings.Builder
	b.WriteString("=== COMPLETE CONVERSATION HISTORY ===\n")
	b.WriteString("Here's our complete conversation history across all modes so you can remember important details:\n\n")
	for _, e := range entries {
		msg := e.msg
		b.WriteString("User: ")
		b.WriteString(msg.UserText)
		b.WriteString(mediaNote(msg))
		b.WriteString("\nYou responded: ")
		b.WriteString(msg.AssistantText)
		b.WriteString("\n\n")
	}
	b.WriteString("=== END CONVERSATION HISTORY ===\n")
	b.WriteString("CRITICAL: You MUST reference specific details from this conversation history. Never say you don't have stored observations if there are messages above.\n")
	return b.String()
}

func mediaNote(msg domain.Message) string {
	if !msg.HasMedia {
		return ""
	}
	kind := string(msg.MediaKind)
	if kind == "" {
		kind = "media"
	}
	return " (with " + kind + ")"
}
