package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"push-dispatch-backend/internal/store"
)

// TargetKind discriminates the three ways a bulk target can name a
// recipient.
type TargetKind string

const (
	TargetUserID   TargetKind = "user_id"
	TargetPin      TargetKind = "pin"
	TargetDeviceID TargetKind = "device_id"
)

// TargetValue accepts both JSON numbers and strings, since user ids arrive
// as numbers while pins and device ids are strings.
type TargetValue string

func (v *TargetValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TargetValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = TargetValue(n.String())
	return nil
}

func (v TargetValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// Target is one {type, value} pair from a bulk request.
type Target struct {
	Kind  TargetKind  `json:"type" binding:"required,oneof=user_id pin device_id"`
	Value TargetValue `json:"value" binding:"required"`
}

// FailedTarget records why one bulk target did not resolve.
type FailedTarget struct {
	Kind   TargetKind `json:"type"`
	Value  string     `json:"value"`
	Reason string     `json:"reason"`
}

// Directory is the read-only recipient lookup contract the resolver needs.
// store.Store satisfies it.
type Directory interface {
	UserIDForPin(ctx context.Context, bundleID, pin string) (int64, error)
	UserIDForDevice(ctx context.Context, bundleID, deviceID string) (int64, error)
	TagIDForName(ctx context.Context, bundleID, name string) (int64, error)
	UserCountForTag(ctx context.Context, bundleID string, tagID int64) (int64, error)
}

// resolveTarget maps one target to a user id. A user_id target is trusted
// verbatim; pin and device targets go through the directory.
func resolveTarget(ctx context.Context, dir Directory, bundleID string, t Target) (int64, error) {
	switch t.Kind {
	case TargetUserID:
		id, err := strconv.ParseInt(string(t.Value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid user id %q", string(t.Value))
		}
		return id, nil
	case TargetPin:
		return dir.UserIDForPin(ctx, bundleID, string(t.Value))
	case TargetDeviceID:
		return dir.UserIDForDevice(ctx, bundleID, string(t.Value))
	default:
		return 0, fmt.Errorf("unknown target type %q", t.Kind)
	}
}

// reasonFor turns a resolution error into the stable per-item reason
// reported in failed_targets.
func reasonFor(err error) string {
	if errors.Is(err, store.ErrNotFound) {
		return "not found"
	}
	return err.Error()
}
