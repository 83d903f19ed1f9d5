package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"push-dispatch-backend/internal/model"
)

// providerFor maps a platform to the push provider routing value. All
// traffic currently goes through FCM, including iOS.
func providerFor(platform string) string {
	return "fcm"
}

// RegisterDevice upserts one device row keyed by (bundle, device_id). Any
// other row in the bundle holding the same push token is deactivated in the
// same transaction, keeping at most one active row per (bundle, token).
func (s *gormStore) RegisterDevice(ctx context.Context, bundleID string, reg DeviceRegistration) (*model.Device, error) {
	now := time.Now()
	userID := reg.AppUserID
	dev := model.Device{
		BundleID:       bundleID,
		DeviceID:       reg.DeviceID,
		AppUserID:      &userID,
		Platform:       reg.Platform,
		Provider:       providerFor(reg.Platform),
		PushToken:      reg.PushToken,
		AppVersion:     reg.AppVersion,
		OSVersion:      reg.OSVersion,
		Model:          reg.Model,
		Language:       reg.Language,
		Timezone:       reg.Timezone,
		TokenStatus:    model.TokenActive,
		TokenUpdatedAt: now,
		LastSeenAt:     now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Device{}).
			Where("bundle_id = ? AND push_token = ? AND device_id <> ?", bundleID, reg.PushToken, reg.DeviceID).
			Updates(map[string]any{"token_status": model.TokenInactive, "updated_at": now}).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bundle_id"}, {Name: "device_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"app_user_id", "platform", "provider", "push_token",
				"app_version", "os_version", "model", "language", "timezone",
				"token_status", "token_updated_at", "last_seen_at", "updated_at",
			}),
		}).Create(&dev).Error; err != nil {
			return err
		}

		// On the conflict-update path gorm does not backfill the row id;
		// reload so the caller always sees the stored row.
		return tx.Where("bundle_id = ? AND device_id = ?", bundleID, reg.DeviceID).First(&dev).Error
	})
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// DeactivateDevice marks a device's token inactive.
func (s *gormStore) DeactivateDevice(ctx context.Context, bundleID, deviceID string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("bundle_id = ? AND device_id = ?", bundleID, deviceID).
		Updates(map[string]any{"token_status": model.TokenInactive, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserDevices lists a user's devices, most recently seen first.
func (s *gormStore) UserDevices(ctx context.Context, bundleID string, appUserID int64) ([]model.Device, error) {
	var devices []model.Device
	err := s.db.WithContext(ctx).
		Where("bundle_id = ? AND app_user_id = ?", bundleID, appUserID).
		Order("last_seen_at DESC").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}
