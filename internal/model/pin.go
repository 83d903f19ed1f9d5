package model

import "time"

// PinMembership associates one user with a caller-chosen pin label. A pin
// has no row of its own: its identity is entirely the set of membership
// rows carrying the same (bundle, pin).
type PinMembership struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	BundleID  string `gorm:"uniqueIndex:idx_pin_member;size:128;not null" json:"bundle_id"`
	Pin       string `gorm:"uniqueIndex:idx_pin_member;size:128;not null" json:"pin"`
	AppUserID int64  `gorm:"uniqueIndex:idx_pin_member;not null" json:"app_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
