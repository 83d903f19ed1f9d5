package store

import "time"

// DeviceRegistration is the input for registering (or re-registering) one
// device.
type DeviceRegistration struct {
	DeviceID   string
	AppUserID  int64
	Platform   string
	PushToken  string
	AppVersion string
	OSVersion  string
	Model      string
	Language   string
	Timezone   string
}

// ClientUpdate carries the client fields a tenant may change about itself.
// Nil fields are left untouched.
type ClientUpdate struct {
	Description *string
	FCMPath     *string
}

// TagSummary is one tag with its distinct-member count.
type TagSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserCount int64     `json:"user_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PinSummary is one pin label with its distinct-member count. Pins have no
// row of their own, so CreatedAt is the earliest membership's.
type PinSummary struct {
	Pin       string    `json:"pin"`
	UserCount int64     `json:"user_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership is one user's association with a tag or pin.
type Membership struct {
	AppUserID int64     `json:"app_user_id"`
	CreatedAt time.Time `json:"created_at"`
}
