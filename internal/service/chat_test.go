package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/ai"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/history"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/persona"
)

type stubAI struct {
	reply string
	err   error
	calls [][]ai.Part
}

func (s *stubAI) GenerateContent(ctx context.Context, parts []ai.Part) (string, error) {
	s.calls = append(s.calls, parts)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type memoryBackend struct {
	conversations map[string]*domain.Conversation
	appendOK      bool
	appended      []domain.Turn
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{conversations: map[string]*domain.Conversation{}, appendOK: true}
}

func (m *memoryBackend) key(username string, mode domain.Mode) string {
	return username + "/" + string(mode)
}

func (m *memoryBackend) AppendMessage(ctx context.Context, t domain.Turn) bool {
	m.appended = append(m.appended, t)
	return m.appendOK
}

func (m *memoryBackend) LoadConversation(ctx context.Context, username string, mode domain.Mode) (*domain.Conversation, bool) {
	conv, ok := m.conversations[m.key(username, mode)]
	return conv, ok
}

func (m *memoryBackend) RegisterUser(ctx context.Context, username, secret string) domain.AuthResult {
	return domain.AuthResult{}
}

func (m *memoryBackend) VerifyLogin(ctx context.Context, username, secret string) domain.AuthResult {
	return domain.AuthResult{}
}

func (m *memoryBackend) UpsertDevice(ctx context.Context, d domain.Device) bool { return true }

func (m *memoryBackend) DeviceOwner(ctx context.Context, deviceID string) (string, bool) {
	return "", false
}

func (m *memoryBackend) TouchDevice(ctx context.Context, deviceID string) {}

func (m *memoryBackend) Close() error { return nil }

func newChatService(t *testing.T, store *memoryBackend, client *stubAI) *ChatService {
	t.Helper()
	lib := persona.NewLibrary(t.TempDir())
	return NewChatService(store, history.New(store, 20), lib, client)
}

func TestChatMintsSessionAndDefaults(t *testing.T) {
	store := newMemoryBackend()
	client := &stubAI{reply: "hello!"}
	svc := newChatService(t, store, client)

	resp := svc.Chat(context.Background(), dto.ChatRequest{Message: "hi"})
	if resp.Reply != "hello!" {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
	if resp.SessionID == "" {
		t.Fatalf("expected a minted session id")
	}
	if len(store.appended) != 1 {
		t.Fatalf("expected one saved turn, got %d", len(store.appended))
	}
	turn := store.appended[0]
	if turn.Username != "User" {
		t.Fatalf("missing username should default, got %q", turn.Username)
	}
	if turn.Mode != domain.ModeSustainability {
		t.Fatalf("missing mode should default to sustainability, got %q", turn.Mode)
	}
	if turn.SessionID != resp.SessionID {
		t.Fatalf("saved turn should carry the minted session id")
	}
}

func TestChatKeepsProvidedSessionID(t *testing.T) {
	svc := newChatService(t, newMemoryBackend(), &stubAI{reply: "ok"})
	resp := svc.Chat(context.Background(), dto.ChatRequest{Message: "hi", SessionID: "sess-7"})
	if resp.SessionID != "sess-7" {
		t.Fatalf("expected provided session id to survive, got %q", resp.SessionID)
	}
}

func TestChatReturnsReplyWhenSaveFails(t *testing.T) {
	store := newMemoryBackend()
	store.appendOK = false
	svc := newChatService(t, store, &stubAI{reply: "still here"})

	resp := svc.Chat(context.Background(), dto.ChatRequest{Message: "hi", Username: "alice"})
	if resp.Reply != "still here" {
		t.Fatalf("save failure must not lose the reply, got %q", resp.Reply)
	}
}

func TestChatRendersAIFailureAsText(t *testing.T) {
	store := newMemoryBackend()
	svc := newChatService(t, store, &stubAI{err: errors.New("upstream down")})

	resp := svc.Chat(context.Background(), dto.ChatRequest{Message: "hi", Username: "alice"})
	if !strings.Contains(resp.Reply, "upstream down") {
		t.Fatalf("expected descriptive failure text, got %q", resp.Reply)
	}
	// The failed turn is still recorded.
	if len(store.appended) != 1 {
		t.Fatalf("expected the turn to be saved, got %d", len(store.appended))
	}
}

func TestChatImageTakesPrecedenceOverVideo(t *testing.T) {
	store := newMemoryBackend()
	client := &stubAI{reply: "I see a plant"}
	svc := newChatService(t, store, client)

	svc.Chat(context.Background(), dto.ChatRequest{
		Message:  "what is this?",
		Username: "alice",
		Image:    "data:image/jpeg;base64,aW1n",
		Video:    "data:video/mp4;base64,dmlk",
	})

	turn := store.appended[0]
	if turn.MediaKind != domain.MediaImage || !turn.HasMedia {
		t.Fatalf("image should win over video: %+v", turn)
	}
	parts := client.calls[0]
	if len(parts) != 2 || parts[1].InlineData == nil || parts[1].InlineData.MimeType != "image/jpeg" {
		t.Fatalf("expected the image part in the AI call: %+v", parts)
	}
}

func TestChatMalformedMediaDropped(t *testing.T) {
	store := newMemoryBackend()
	client := &stubAI{reply: "text only"}
	svc := newChatService(t, store, client)

	resp := svc.Chat(context.Background(), dto.ChatRequest{
		Message:  "analyze",
		Username: "alice",
		Image:    "garbage-not-a-data-url",
	})
	if resp.Reply != "text only" {
		t.Fatalf("turn should degrade to text, got %q", resp.Reply)
	}
	if len(client.calls[0]) != 1 {
		t.Fatalf("malformed media should not reach the AI call: %+v", client.calls[0])
	}
}

func TestChatAssistantMediaAttachesMemory(t *testing.T) {
	store := newMemoryBackend()
	svc := newChatService(t, store, &stubAI{reply: "A kitchen with a kettle."})

	svc.Chat(context.Background(), dto.ChatRequest{
		Message:  "remember this room",
		Username: "alice",
		Mode:     string(domain.ModeAssistant),
		Image:    "data:image/jpeg;base64,aW1n",
	})

	turn := store.appended[0]
	if turn.Memory == nil {
		t.Fatalf("assistant-mode media turn should carry a detailed memory")
	}
	if turn.Memory.RawAnalysis != "A kitchen with a kettle." {
		t.Fatalf("memory should keep the raw analysis: %+v", turn.Memory)
	}
	if turn.Memory.MediaKind != domain.MediaImage {
		t.Fatalf("memory media kind mismatch: %+v", turn.Memory)
	}
}

func TestChatSustainabilityMediaHasNoMemory(t *testing.T) {
	store := newMemoryBackend()
	svc := newChatService(t, store, &stubAI{reply: "A reusable bottle."})

	svc.Chat(context.Background(), dto.ChatRequest{
		Message:  "is this sustainable?",
		Username: "alice",
		Image:    "data:image/jpeg;base64,aW1n",
	})
	if store.appended[0].Memory != nil {
		t.Fatalf("sustainability mode should not extract memories")
	}
}

func TestChatVideoContextSuffix(t *testing.T) {
	store := newMemoryBackend()
	svc := newChatService(t, store, &stubAI{reply: "ok"})

	svc.Chat(context.Background(), dto.ChatRequest{
		Message:      "look",
		Username:     "alice",
		Video:        "data:video/mp4;base64,dmlk",
		VideoContext: "kitchen walkthrough",
	})
	if got := store.appended[0].UserText; got != "look [Context: kitchen walkthrough]" {
		t.Fatalf("unexpected saved user text: %q", got)
	}
}

func TestChatIncludesHistoryInPrompt(t *testing.T) {
	store := newMemoryBackend()
	store.conversations[store.key("alice", domain.ModeSustainability)] = &domain.Conversation{
		Username: "alice",
		Mode:     domain.ModeSustainability,
		Messages: []domain.Message{
			{Timestamp: "2026-01-01T10:00:00Z", UserText: "about solar panels", AssistantText: "they convert sunlight"},
		},
	}
	client := &stubAI{reply: "as we discussed"}
	svc := newChatService(t, store, client)

	svc.Chat(context.Background(), dto.ChatRequest{Message: "remind me", Username: "alice"})
	prompt := client.calls[0][0].Text
	if !strings.Contains(prompt, "about solar panels") {
		t.Fatalf("history missing from prompt:\n%s", prompt)
	}
}
