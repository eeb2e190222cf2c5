// Package service orchestrates user-facing turns: context assembly, the AI
// boundary call, memory extraction and the write-back of the finished turn.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/ai"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/history"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/jsondoc"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/observability/metrics"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/persona"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/storage"

	"github.com/google/uuid"
)

// AIClient is the opaque remote boundary; the real client lives in
// internal/ai, tests stub it.
type AIClient interface {
	GenerateContent(ctx context.Context, parts []ai.Part) (string, error)
}

type ChatService struct {
	store    storage.Backend
	history  *history.Aggregator
	personas *persona.Library
	ai       AIClient
	now      func() time.Time
}

func NewChatService(store storage.Backend, hist *history.Aggregator, personas *persona.Library, client AIClient) *ChatService {
	return &ChatService{
		store:    store,
		history:  hist,
		personas: personas,
		ai:       client,
		now:      time.Now,
	}
}

// Chat runs one full turn. The reply is always returned to the caller, even
// when persistence fails afterwards; losing a save must not lose the live
// answer. AI failures come back as a textual reply, not an error.
func (s *ChatService) Chat(ctx context.Context, req dto.ChatRequest) dto.ChatResponse {
	username := req.Username
	if username == "" {
		username = "User"
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		mode = domain.ModeSustainability
	}

	mediaData := req.Image
	mediaKind := domain.MediaImage
	if mediaData == "" && req.Video != "" {
		mediaData = req.Video
		mediaKind = domain.MediaVideo
	}
	hasMedia := mediaData != ""
	if !hasMedia {
		mediaKind = domain.MediaNone
	}

	slog.Info("chat turn", "username", username, "mode", mode, "media", mediaKind, "session_id", sessionID)

	prompt := s.buildPrompt(ctx, username, mode, req, hasMedia, mediaKind)
	parts := []ai.Part{ai.TextPart(prompt)}
	if hasMedia {
		if part, err := ai.MediaPart(mediaData); err != nil {
			// Degrade gracefully: the turn goes through without the media.
			slog.Warn("chat: dropping malformed media", "username", username, "error", err)
		} else {
			parts = append(parts, part)
		}
	}

	result := "success"
	start := s.now()
	reply, err := s.ai.GenerateContent(ctx, parts)
	metrics.AIRequestDurationSeconds.WithLabelValues(aiResult(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		result = "ai_failure"
		slog.Error("chat: ai call failed", "username", username, "error", err)
		reply = "Sorry, I couldn't generate a response: " + err.Error()
	}
	defer func() {
		metrics.ChatTurnsTotal.WithLabelValues(string(mode), result).Inc()
	}()

	var memory *domain.DetailedMemory
	if hasMedia && mode == domain.ModeAssistant && err == nil {
		memory = extractDetailedMemory(reply, mediaKind, s.now().UTC().Format(time.RFC3339Nano))
	}

	userText := req.Message
	if strings.TrimSpace(req.VideoContext) != "" {
		userText += fmt.Sprintf(" [Context: %s]", req.VideoContext)
	}

	saved := s.store.AppendMessage(ctx, domain.Turn{
		SessionID:     sessionID,
		Username:      username,
		Mode:          mode,
		UserText:      userText,
		AssistantText: reply,
		HasMedia:      hasMedia,
		MediaKind:     mediaKind,
		Memory:        memory,
	})
	if !saved {
		slog.Warn("chat: failed to save turn", "username", username, "mode", mode)
	}

	return dto.ChatResponse{Reply: reply, SessionID: sessionID}
}

func aiResult(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func (s *ChatService) buildPrompt(ctx context.Context, username string, mode domain.Mode, req dto.ChatRequest, hasMedia bool, mediaKind domain.MediaKind) string {
	var system string
	if mode == domain.ModeAssistant {
		system = s.personas.AssistantPrompt(username)
	} else {
		system = s.personas.SustainabilityPrompt(username)
	}

	historyBlock := s.history.Compose(ctx, username, mode)
	if historyBlock == "" {
		return fmt.Sprintf("%s\n\nUser (%s): %s", system, username, req.Message)
	}

	if mode != domain.ModeAssistant {
		return fmt.Sprintf("%s\n\n%s\n\nCurrent user (%s): %s\n\nReference relevant details from the conversation history when appropriate.",
			system, historyBlock, username, req.Message)
	}

	prompt := fmt.Sprintf(`%s

%s

CRITICAL MEMORY INSTRUCTIONS FOR THIS RESPONSE:
1. The conversation history above contains previous interactions. Reference specific details when relevant.
2. If messages in the conversation history include media, you have already analyzed that media. Reference those observations.
3. Do not refer to message numbers. Refer to content naturally.
4. Build on previous context.
5. After your persona introduction, speak in FIRST PERSON only.

Current user (%s): %s

Respond based on the complete conversation history above.`, system, historyBlock, username, req.Message)

	if hasMedia {
		var hints []string
		if strings.TrimSpace(req.Message) != "" {
			hints = append(hints, fmt.Sprintf("User's message: '%s'", req.Message))
		}
		if strings.TrimSpace(req.VideoContext) != "" {
			hints = append(hints, fmt.Sprintf("Additional context: '%s'", req.VideoContext))
		}
		if len(hints) == 0 {
			hints = append(hints, "General analysis requested")
		}
		prompt += "\n\nSPECIFIC REQUEST: " + strings.Join(hints, " | ")
		prompt += fmt.Sprintf("\n\nPerform detailed %s analysis focusing on the request above. Analyze both visual and audio content for videos.", mediaKind)
	}
	return prompt
}

// extractDetailedMemory structures the media analysis into the open-ended
// memory document attached to the turn. Categories start empty; downstream
// consumers fill and search them freely.
func extractDetailedMemory(analysis string, kind domain.MediaKind, timestamp string) *domain.DetailedMemory {
	return &domain.DetailedMemory{
		Timestamp:   timestamp,
		MediaKind:   kind,
		RawAnalysis: analysis,
		Extraction: jsondoc.Object(map[string]any{
			"personal_observations": map[string]any{},
			"devices":               []any{},
			"environment":           map[string]any{},
			"food_items":            []any{},
			"objects":               []any{},
			"safety_notes":          []any{},
			"spatial_info":          map[string]any{},
		}),
	}
}
