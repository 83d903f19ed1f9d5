package model

import "time"

// Token status values for Device.TokenStatus.
const (
	TokenInactive = 0
	TokenActive   = 1
)

// Device is one installed app instance. Within a bundle, at most one
// *active* row may hold a given push token; registration deactivates any
// other holder before upserting (see store.RegisterDevice).
type Device struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	BundleID  string `gorm:"uniqueIndex:idx_device_bundle_device;index:idx_device_bundle_token;size:128;not null" json:"bundle_id"`
	DeviceID  string `gorm:"uniqueIndex:idx_device_bundle_device;size:255;not null" json:"device_id"`
	AppUserID *int64 `gorm:"index" json:"app_user_id"` // nil until linked to a user

	Platform  string `gorm:"size:16;not null" json:"platform"`
	Provider  string `gorm:"size:16;not null" json:"provider"`
	PushToken string `gorm:"index:idx_device_bundle_token;size:512;not null" json:"-"`

	AppVersion string `gorm:"size:50" json:"app_version"`
	OSVersion  string `gorm:"size:50" json:"os_version"`
	Model      string `gorm:"size:100" json:"model"`
	Language   string `gorm:"size:10" json:"language"`
	Timezone   string `gorm:"size:50" json:"timezone"`

	TokenStatus    int       `gorm:"not null;default:1" json:"token_status"`
	TokenUpdatedAt time.Time `json:"token_updated_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
