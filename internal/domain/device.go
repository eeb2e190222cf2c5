package domain

import "time"

// Device is a registered camera accessory. The vendor-assigned DeviceID is
// the lookup key; re-registering an existing id under a different username
// reassigns ownership, last write wins. Deactivation is logical only.
type Device struct {
	DeviceID     string     `gorm:"type:varchar(255);primaryKey" json:"device_id"`
	Username     string     `gorm:"type:varchar(255);index:idx_devices_username" json:"username"`
	Name         string     `gorm:"type:varchar(255)" json:"device_name"`
	MacAddress   string     `gorm:"type:varchar(50)" json:"mac_address"`
	RegisteredAt time.Time  `gorm:"not null" json:"registered_at"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
}

func (Device) TableName() string { return "esp32_devices" }
