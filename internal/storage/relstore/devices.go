package relstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertDevice registers or re-registers a device. Last write wins: the row
// is handed to the new owner and reactivated; registered_at is preserved.
func (s *Store) UpsertDevice(ctx context.Context, d domain.Device) bool {
	now := time.Now().UTC()
	d.IsActive = true
	d.LastSeen = &now
	if d.RegisteredAt.IsZero() {
		d.RegisteredAt = now
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "name", "mac_address", "last_seen", "is_active"}),
	}).Create(&d).Error
	if err != nil {
		slog.Error("relstore: upsert device", "device_id", d.DeviceID, "error", err)
		return false
	}
	return true
}

// DeviceOwner returns the owning username for an active device.
func (s *Store) DeviceOwner(ctx context.Context, deviceID string) (string, bool) {
	var d domain.Device
	err := s.db.WithContext(ctx).
		First(&d, "device_id = ? AND is_active = ?", deviceID, true).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("relstore: device owner", "device_id", deviceID, "error", err)
		}
		return "", false
	}
	return d.Username, true
}

// TouchDevice updates last_seen; unknown devices are a no-op.
func (s *Store) TouchDevice(ctx context.Context, deviceID string) {
	err := s.db.WithContext(ctx).
		Model(&domain.Device{}).
		Where("device_id = ?", deviceID).
		Update("last_seen", time.Now().UTC()).Error
	if err != nil {
		slog.Error("relstore: touch device", "device_id", deviceID, "error", err)
	}
}
