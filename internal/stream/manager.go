package stream

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

const DefaultTTL = 5 * time.Minute

// Registry is the slice of the device registry the manager coordinates with:
// owner lookup for heartbeats and the per-user current-session pointer.
type Registry interface {
	Owner(ctx context.Context, deviceID string) (string, bool)
	Touch(ctx context.Context, deviceID string)
	SetCurrentSession(username, sessionID string)
	CurrentSession(username string) (string, bool)
	ClearCurrentSession(username, sessionID string)
}

// HeartbeatResult is the reply to a polling device. Command is empty when
// there is nothing to do.
type HeartbeatResult struct {
	Command   Command `json:"command,omitempty"`
	SessionID string  `json:"session_id,omitempty"`
	FrameRate int     `json:"frame_rate,omitempty"`
}

// Manager owns the process-wide session table. All map access is serialized
// on one mutex, which also closes the create/replace race for a username:
// two near-simultaneous starts can no longer silently interleave, the later
// one simply replaces the earlier.
type Manager struct {
	registry Registry
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(registry Registry, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		registry: registry,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Start mints a new session for the user and records it as current. An
// unfinished previous session is abandoned in place; the sweep collects it.
func (m *Manager) Start(username string, frameRate int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	id := "stream_" + strconv.FormatInt(now.UnixNano(), 10)
	if prev, ok := m.registry.CurrentSession(username); ok {
		if old := m.sessions[prev]; old != nil && old.State != StateComplete {
			slog.Info("stream: abandoning unfinished session", "session_id", prev, "username", username)
		}
	}
	m.sessions[id] = &Session{
		ID:              id,
		Username:        username,
		State:           StateCreated,
		TargetFrameRate: frameRate,
		CreatedAt:       now,
	}
	m.registry.SetCurrentSession(username, id)
	slog.Info("stream: session started", "session_id", id, "username", username, "frame_rate", frameRate)
	return id
}

// Heartbeat resolves the device to its owner, refreshes liveness and decides
// whether the device should begin recording. Unknown devices get an empty
// result, never an error.
func (m *Manager) Heartbeat(ctx context.Context, deviceID string, reported DeviceState) (HeartbeatResult, bool) {
	username, ok := m.registry.Owner(ctx, deviceID)
	if !ok {
		return HeartbeatResult{}, false
	}
	m.registry.Touch(ctx, deviceID)

	m.mu.Lock()
	defer m.mu.Unlock()

	sid, ok := m.registry.CurrentSession(username)
	if !ok {
		return HeartbeatResult{}, true
	}
	sess, ok := m.sessions[sid]
	if !ok {
		return HeartbeatResult{}, true
	}

	cmd := commandFor(reported, sess.State)
	if cmd == CommandStartRecording && sess.State == StateCreated {
		sess.State = StateStartRequested
	}
	if cmd == CommandNone {
		return HeartbeatResult{}, true
	}
	return HeartbeatResult{Command: cmd, SessionID: sess.ID, FrameRate: sess.TargetFrameRate}, true
}

// PushFrame appends a frame to the session buffer. The first successful push
// moves the session to streaming. Unknown sessions report not-found; stale
// devices poll with dead ids all the time.
func (m *Manager) PushFrame(sessionID string, frameNumber int, payload string, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if payload == "" {
		// Malformed pushes are dropped and logged, never fatal to the session.
		slog.Warn("stream: dropping empty frame", "session_id", sessionID, "frame_number", frameNumber)
		return nil
	}
	sess.Frames = append(sess.Frames, Frame{Number: frameNumber, Payload: payload, Size: size})
	sess.FrameCount++
	if sess.State != StateComplete {
		sess.State = StateStreaming
	}
	return nil
}

// End marks the recording complete. The device's claimed frame total is
// recorded for cross-checking only; a mismatch is logged, not enforced.
func (m *Manager) End(sessionID string, totalFrames int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.RecordingComplete = true
	sess.DeclaredTotal = totalFrames
	sess.State = StateComplete
	if totalFrames != sess.FrameCount {
		slog.Warn("stream: frame count mismatch", "session_id", sessionID,
			"declared", totalFrames, "received", sess.FrameCount)
	}
	slog.Info("stream: session complete", "session_id", sessionID, "frames", sess.FrameCount)
	return nil
}

// Drain returns a copy of the session's buffered frames in push order. It
// does not clear the buffer; reads are repeatable.
func (m *Manager) Drain(sessionID string) ([]Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := make([]Frame, len(sess.Frames))
	copy(out, sess.Frames)
	return out, nil
}

// DrainCurrent drains the user's current session, if one exists.
func (m *Manager) DrainCurrent(username string) ([]Frame, string, error) {
	sid, ok := m.registry.CurrentSession(username)
	if !ok {
		return nil, "", domain.ErrSessionNotFound
	}
	frames, err := m.Drain(sid)
	return frames, sid, err
}

// Sweep evicts sessions older than the TTL and drops their current-session
// pointers. Called on a fixed schedule from main.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().UTC().Add(-m.ttl)
	for id, sess := range m.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			m.registry.ClearCurrentSession(sess.Username, id)
			slog.Info("stream: evicted stale session", "session_id", id,
				"username", sess.Username, "state", sess.State.String())
		}
	}
}

// Len reports the number of live sessions, for metrics.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
