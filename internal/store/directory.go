package store

import (
	"context"

	"push-dispatch-backend/internal/model"
)

// The recipient directory: tenant-scoped lookups the audience resolver
// uses. All read-only; a zero-row result is ErrNotFound, never a driver
// error surfaced as control flow.

// UserIDForPin returns the user behind a pin. Multiple users may share a
// pin; the most recently added membership wins, mirroring the
// pin-as-session-alias intent.
func (s *gormStore) UserIDForPin(ctx context.Context, bundleID, pin string) (int64, error) {
	var m model.PinMembership
	err := s.db.WithContext(ctx).
		Where("bundle_id = ? AND pin = ?", bundleID, pin).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		return 0, notFound(err)
	}
	return m.AppUserID, nil
}

// UserIDForDevice returns the user a device is linked to. Unknown devices
// and devices with no linked user are both ErrNotFound.
func (s *gormStore) UserIDForDevice(ctx context.Context, bundleID, deviceID string) (int64, error) {
	var d model.Device
	err := s.db.WithContext(ctx).
		Where("bundle_id = ? AND device_id = ?", bundleID, deviceID).
		First(&d).Error
	if err != nil {
		return 0, notFound(err)
	}
	if d.AppUserID == nil {
		return 0, ErrNotFound
	}
	return *d.AppUserID, nil
}

// TagIDForName resolves a tag name to its id.
func (s *gormStore) TagIDForName(ctx context.Context, bundleID, name string) (int64, error) {
	var t model.Tag
	err := s.db.WithContext(ctx).
		Where("bundle_id = ? AND name = ?", bundleID, name).
		First(&t).Error
	if err != nil {
		return 0, notFound(err)
	}
	return t.ID, nil
}

// UserCountForTag counts the distinct users holding a tag.
func (s *gormStore) UserCountForTag(ctx context.Context, bundleID string, tagID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.TagMembership{}).
		Where("bundle_id = ? AND tag_id = ?", bundleID, tagID).
		Distinct("app_user_id").
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
