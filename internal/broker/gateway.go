package broker

// Topics names the logical subjects the service publishes to. The core
// only ever targets PushDispatch; the other two belong to collaborators
// downstream and are exposed for operability.
type Topics struct {
	PushDispatch   string `yaml:"push_dispatch"`
	DeliveryEvents string `yaml:"delivery_events"`
	UserEvents     string `yaml:"user_events"`
}

// UserEvent is published to the user-events topic on registry changes,
// best-effort.
type UserEvent struct {
	BundleID  string `json:"bundle_id"`
	Event     string `json:"event"`
	AppUserID int64  `json:"app_user_id"`
	DeviceID  string `json:"device_id,omitempty"`
}
