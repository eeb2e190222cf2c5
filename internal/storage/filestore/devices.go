package filestore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

func (s *Store) loadDevices() (map[string]*domain.Device, error) {
	devices := map[string]*domain.Device{}
	err := readJSON(filepath.Join(s.dir, devicesFile), &devices)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return devices, nil
}

func (s *Store) saveDevices(devices map[string]*domain.Device) error {
	return writeJSON(filepath.Join(s.dir, devicesFile), devices)
}

// UpsertDevice registers or re-registers a device. Last write wins: an
// existing device id is handed to the new owner and reactivated.
func (s *Store) UpsertDevice(ctx context.Context, d domain.Device) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices, err := s.loadDevices()
	if err != nil {
		slog.Error("filestore: load devices", "error", err)
		return false
	}

	now := time.Now().UTC()
	d.IsActive = true
	d.LastSeen = &now
	if existing, ok := devices[d.DeviceID]; ok {
		d.RegisteredAt = existing.RegisteredAt
	} else if d.RegisteredAt.IsZero() {
		d.RegisteredAt = now
	}
	devices[d.DeviceID] = &d

	if err := s.saveDevices(devices); err != nil {
		slog.Error("filestore: save devices", "error", err)
		return false
	}
	return true
}

// DeviceOwner returns the owning username, or ok=false when the device is
// unknown or deactivated.
func (s *Store) DeviceOwner(ctx context.Context, deviceID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices, err := s.loadDevices()
	if err != nil {
		slog.Error("filestore: load devices", "error", err)
		return "", false
	}
	d, ok := devices[deviceID]
	if !ok || !d.IsActive {
		return "", false
	}
	return d.Username, true
}

// TouchDevice updates last_seen; unknown devices are a no-op.
func (s *Store) TouchDevice(ctx context.Context, deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices, err := s.loadDevices()
	if err != nil {
		slog.Error("filestore: load devices", "error", err)
		return
	}
	d, ok := devices[deviceID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	d.LastSeen = &now
	if err := s.saveDevices(devices); err != nil {
		slog.Error("filestore: save devices", "error", err)
	}
}
