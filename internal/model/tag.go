package model

import "time"

// Tag is a named, persistent group of users within a bundle.
type Tag struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	ClientID int64  `gorm:"index;not null" json:"-"`
	BundleID string `gorm:"uniqueIndex:idx_tag_bundle_name;size:128;not null" json:"bundle_id"`
	Name     string `gorm:"uniqueIndex:idx_tag_bundle_name;size:128;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagMembership associates one user with one tag. The unique index is the
// source of truth for duplicate adds; re-adding is a no-op.
type TagMembership struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	BundleID  string `gorm:"uniqueIndex:idx_tag_member;size:128;not null" json:"bundle_id"`
	TagID     int64  `gorm:"uniqueIndex:idx_tag_member;not null" json:"tag_id"`
	AppUserID int64  `gorm:"uniqueIndex:idx_tag_member;not null" json:"app_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
