// Package devices maps camera accessories to their owning users and holds
// the per-user pointer to the current streaming session.
package devices

import (
	"context"
	"sync"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

// Store is the slice of the storage backend the registry persists through.
type Store interface {
	UpsertDevice(ctx context.Context, d domain.Device) bool
	DeviceOwner(ctx context.Context, deviceID string) (string, bool)
	TouchDevice(ctx context.Context, deviceID string)
}

// RegisterResult echoes the accepted registration.
type RegisterResult struct {
	OK       bool   `json:"success"`
	DeviceID string `json:"device_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Registry is best-effort by design: devices are untrusted, frequently poll
// with stale identifiers, and their liveness is advisory. Storage failures
// downgrade to absent/false rather than erroring.
type Registry struct {
	store Store

	// Current streaming session per username. In-memory only; sessions are
	// ephemeral and die with the process.
	mu      sync.Mutex
	current map[string]string
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, current: make(map[string]string)}
}

// Register upserts the device. Registering an existing device_id overwrites
// its owner and name and reactivates it; last registration wins, with no
// confirmation step.
func (r *Registry) Register(ctx context.Context, deviceID, username, name, macAddress string) RegisterResult {
	ok := r.store.UpsertDevice(ctx, domain.Device{
		DeviceID:     deviceID,
		Username:     username,
		Name:         name,
		MacAddress:   macAddress,
		RegisteredAt: time.Now().UTC(),
	})
	if !ok {
		return RegisterResult{}
	}
	return RegisterResult{OK: true, DeviceID: deviceID, Username: username}
}

// Owner resolves a device to its owning username. Unknown and deactivated
// devices are both absent.
func (r *Registry) Owner(ctx context.Context, deviceID string) (string, bool) {
	return r.store.DeviceOwner(ctx, deviceID)
}

// Touch updates the device's last_seen stamp; unknown devices are a no-op,
// not an error.
func (r *Registry) Touch(ctx context.Context, deviceID string) {
	r.store.TouchDevice(ctx, deviceID)
}

// SetCurrentSession records sessionID as the user's current streaming
// session, replacing any previous pointer.
func (r *Registry) SetCurrentSession(username, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current[username] = sessionID
}

// CurrentSession returns the user's current streaming session id, if any.
func (r *Registry) CurrentSession(username string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.current[username]
	return id, ok
}

// ClearCurrentSession drops the pointer if it still references sessionID.
func (r *Registry) ClearCurrentSession(username, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current[username] == sessionID {
		delete(r.current, username)
	}
}
