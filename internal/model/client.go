package model

import "time"

// ApiClient is one tenant of the service. Its BundleID partitions every
// other table; its Token is the x-api-key credential.
type ApiClient struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	BundleID    string `gorm:"uniqueIndex;size:128;not null" json:"bundle_id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Token       string `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Description string `gorm:"size:512" json:"description"`
	FCMPath     string `gorm:"column:fcm_path;size:512" json:"fcm_path"`
	Status      bool   `gorm:"not null;default:true" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
