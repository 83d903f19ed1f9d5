package model

import "time"

// Message status lifecycle. The dispatcher only ever creates rows in
// StatusScheduled; every later transition belongs to the downstream
// delivery pipeline.
const (
	StatusDraft     = 0
	StatusSending   = 1
	StatusSent      = 2
	StatusFailed    = 3
	StatusCanceled  = 4
	StatusScheduled = 5
)

// Audience types for Message.AudienceType.
const (
	AudienceUser   = "user"
	AudiencePin    = "pin"
	AudienceDevice = "device"
	AudienceTag    = "tag"
)

// Message records one push-notification send intent for one resolved
// recipient. AudienceRef holds the resolved user id, except for tag sends
// where it holds the tag id (the downstream expander fans that out).
// Everything but Status is immutable after creation.
type Message struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	BundleID string `gorm:"index;size:128;not null" json:"bundle_id"`

	Category  string  `gorm:"size:32;not null" json:"category"`
	Title     string  `gorm:"size:255;not null" json:"title"`
	Body      string  `gorm:"size:1000;not null" json:"body"`
	ActionURL *string `gorm:"size:512" json:"action_url"`
	ImageURL  *string `gorm:"size:512" json:"image_url"`

	AudienceType string `gorm:"size:16;not null" json:"audience_type"`
	AudienceRef  int64  `gorm:"not null" json:"audience_ref"`
	Status       int    `gorm:"not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
