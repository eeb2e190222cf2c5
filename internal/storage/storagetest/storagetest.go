// Package storagetest holds the persistence contract suite. Both backends run
// the exact same sequences through it, which is what keeps them observably
// equivalent.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

// Backend restates the storage contract locally so implementation packages
// can run the suite from their internal tests without importing the backend
// selector (which would cycle back into them).
type Backend interface {
	AppendMessage(ctx context.Context, t domain.Turn) bool
	LoadConversation(ctx context.Context, username string, mode domain.Mode) (*domain.Conversation, bool)
	RegisterUser(ctx context.Context, username, secret string) domain.AuthResult
	VerifyLogin(ctx context.Context, username, secret string) domain.AuthResult
	UpsertDevice(ctx context.Context, d domain.Device) bool
	DeviceOwner(ctx context.Context, deviceID string) (string, bool)
	TouchDevice(ctx context.Context, deviceID string)
}

// uniqueName keeps repeated runs against a persistent database from colliding.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// Run exercises one backend implementation against the shared contract. open
// is called per subtest so each case starts from its own handle.
func Run(t *testing.T, open func(t *testing.T) Backend) {
	ctx := context.Background()

	t.Run("ConversationRoundTrip", func(t *testing.T) {
		s := open(t)
		user := uniqueName("user")

		if _, ok := s.LoadConversation(ctx, user, domain.ModeSustainability); ok {
			t.Fatalf("expected absent conversation before first save")
		}
		if !s.AppendMessage(ctx, domain.Turn{
			SessionID:     "sess-1",
			Username:      user,
			Mode:          domain.ModeSustainability,
			UserText:      "how do I compost?",
			AssistantText: "Start with greens and browns.",
		}) {
			t.Fatalf("append failed")
		}

		conv, ok := s.LoadConversation(ctx, user, domain.ModeSustainability)
		if !ok {
			t.Fatalf("conversation missing after save")
		}
		if len(conv.Messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(conv.Messages))
		}
		msg := conv.Messages[0]
		if msg.UserText != "how do I compost?" || msg.AssistantText != "Start with greens and browns." || msg.SessionID != "sess-1" {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if _, err := time.Parse(time.RFC3339Nano, msg.Timestamp); err != nil {
			t.Fatalf("timestamp %q not assigned at write time: %v", msg.Timestamp, err)
		}
	})

	t.Run("ModeIsolation", func(t *testing.T) {
		s := open(t)
		user := uniqueName("user")

		if !s.AppendMessage(ctx, domain.Turn{Username: user, Mode: domain.ModeSustainability, UserText: "recycling?", AssistantText: "Sort by material."}) {
			t.Fatalf("append failed")
		}
		if _, ok := s.LoadConversation(ctx, user, domain.ModeAssistant); ok {
			t.Fatalf("assistant mode should have no conversation")
		}
	})

	t.Run("DetailedMemoryScopedToMode", func(t *testing.T) {
		s := open(t)
		user := uniqueName("user")

		if !s.AppendMessage(ctx, domain.Turn{
			SessionID:     "sess-media",
			Username:      user,
			Mode:          domain.ModeAssistant,
			UserText:      "what do you see?",
			AssistantText: "A desk with a laptop.",
			HasMedia:      true,
			MediaKind:     domain.MediaImage,
			Memory:        &domain.DetailedMemory{MediaKind: domain.MediaImage, RawAnalysis: "A desk with a laptop."},
		}) {
			t.Fatalf("media append failed")
		}
		if !s.AppendMessage(ctx, domain.Turn{
			SessionID:     "sess-plain",
			Username:      user,
			Mode:          domain.ModeSustainability,
			UserText:      "recycling tips?",
			AssistantText: "Sort by material.",
		}) {
			t.Fatalf("plain append failed")
		}

		conv, ok := s.LoadConversation(ctx, user, domain.ModeAssistant)
		if !ok || len(conv.DetailedMemories) != 1 {
			t.Fatalf("assistant load should carry its memory: %+v", conv)
		}
		if conv.DetailedMemories[0].RawAnalysis != "A desk with a laptop." {
			t.Fatalf("unexpected memory: %+v", conv.DetailedMemories[0])
		}

		conv, ok = s.LoadConversation(ctx, user, domain.ModeSustainability)
		if !ok {
			t.Fatalf("sustainability conversation missing")
		}
		if len(conv.DetailedMemories) != 0 {
			t.Fatalf("memory written under assistant mode leaked into sustainability load: %+v", conv.DetailedMemories)
		}
	})

	t.Run("TimestampsNonDecreasing", func(t *testing.T) {
		s := open(t)
		user := uniqueName("user")

		for i := 0; i < 3; i++ {
			if !s.AppendMessage(ctx, domain.Turn{
				Username:      user,
				Mode:          domain.ModeSustainability,
				UserText:      fmt.Sprintf("question %d", i),
				AssistantText: fmt.Sprintf("answer %d", i),
			}) {
				t.Fatalf("append %d failed", i)
			}
		}

		conv, ok := s.LoadConversation(ctx, user, domain.ModeSustainability)
		if !ok || len(conv.Messages) != 3 {
			t.Fatalf("expected 3 messages: %+v", conv)
		}
		var prev time.Time
		for i, m := range conv.Messages {
			at, err := time.Parse(time.RFC3339Nano, m.Timestamp)
			if err != nil {
				t.Fatalf("message %d timestamp %q: %v", i, m.Timestamp, err)
			}
			if at.Before(prev) {
				t.Fatalf("message %d out of order: %v before %v", i, at, prev)
			}
			prev = at
		}
	})

	t.Run("RegisterAndLogin", func(t *testing.T) {
		s := open(t)
		user := uniqueName("user")

		res := s.RegisterUser(ctx, user, "hunter22")
		if !res.OK || res.Username != user {
			t.Fatalf("register failed: %+v", res)
		}
		if dup := s.RegisterUser(ctx, user, "other-secret"); dup.OK || dup.Reason != domain.ErrUsernameTaken.Error() {
			t.Fatalf("duplicate register should fail with taken reason: %+v", dup)
		}
		if login := s.VerifyLogin(ctx, user, "hunter22"); !login.OK {
			t.Fatalf("login with correct secret failed: %+v", login)
		}
		if login := s.VerifyLogin(ctx, user, "wrong"); login.OK {
			t.Fatalf("login with wrong secret succeeded")
		}
		if login := s.VerifyLogin(ctx, uniqueName("ghost"), "hunter22"); login.OK || login.Reason != domain.ErrInvalidCredentials.Error() {
			t.Fatalf("unknown user login: %+v", login)
		}
	})

	t.Run("DeviceLastWriteWins", func(t *testing.T) {
		s := open(t)
		deviceID := uniqueName("esp")
		alice := uniqueName("alice")
		bob := uniqueName("bob")

		if !s.UpsertDevice(ctx, domain.Device{DeviceID: deviceID, Username: alice, Name: "cam"}) {
			t.Fatalf("first upsert failed")
		}
		if owner, ok := s.DeviceOwner(ctx, deviceID); !ok || owner != alice {
			t.Fatalf("owner lookup: %q %v", owner, ok)
		}

		// Re-registering under another user reassigns silently.
		if !s.UpsertDevice(ctx, domain.Device{DeviceID: deviceID, Username: bob, Name: "cam"}) {
			t.Fatalf("re-register failed")
		}
		if owner, _ := s.DeviceOwner(ctx, deviceID); owner != bob {
			t.Fatalf("expected reassignment to %q, got %q", bob, owner)
		}

		if _, ok := s.DeviceOwner(ctx, uniqueName("unknown")); ok {
			t.Fatalf("unknown device should be absent")
		}

		// Touch on an unknown device is a no-op, not a crash.
		s.TouchDevice(ctx, uniqueName("unknown"))
	})
}
