package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"push-dispatch-backend/internal/model"
)

// ListPins returns every pin label in the bundle with its distinct-member
// count. Pins exist only as membership rows, so this is a group-by over
// them.
func (s *gormStore) ListPins(ctx context.Context, bundleID string) ([]PinSummary, error) {
	var pins []PinSummary
	err := s.db.WithContext(ctx).
		Model(&model.PinMembership{}).
		Select("pin, COUNT(DISTINCT app_user_id) AS user_count, MIN(created_at) AS created_at").
		Where("bundle_id = ?", bundleID).
		Group("pin").
		Order("pin").
		Scan(&pins).Error
	if err != nil {
		return nil, err
	}
	return pins, nil
}

// GetPin returns one pin's summary, or ErrNotFound when it has no members.
func (s *gormStore) GetPin(ctx context.Context, bundleID, pin string) (*PinSummary, error) {
	var summary PinSummary
	res := s.db.WithContext(ctx).
		Model(&model.PinMembership{}).
		Select("pin, COUNT(DISTINCT app_user_id) AS user_count, MIN(created_at) AS created_at").
		Where("bundle_id = ? AND pin = ?", bundleID, pin).
		Group("pin").
		Scan(&summary)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &summary, nil
}

// DeletePin removes every membership of a pin, which deletes the pin
// itself.
func (s *gormStore) DeletePin(ctx context.Context, bundleID, pin string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("bundle_id = ? AND pin = ?", bundleID, pin).
		Delete(&model.PinMembership{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return res.RowsAffected, nil
}

// AddPinMembers adds users to a pin, creating it implicitly. Duplicates are
// skipped through the unique index, never an exists-check.
func (s *gormStore) AddPinMembers(ctx context.Context, bundleID, pin string, userIDs []int64) (added, skipped int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, userID := range userIDs {
			m := model.PinMembership{
				BundleID:  bundleID,
				Pin:       pin,
				AppUserID: userID,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				skipped++
			} else {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return added, skipped, nil
}

// RemovePinMembers removes users from a pin.
func (s *gormStore) RemovePinMembers(ctx context.Context, bundleID, pin string, userIDs []int64) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("bundle_id = ? AND pin = ? AND app_user_id IN ?", bundleID, pin, userIDs).
		Delete(&model.PinMembership{})
	return res.RowsAffected, res.Error
}

// PinMembers lists a pin's members, most recently added first.
func (s *gormStore) PinMembers(ctx context.Context, bundleID, pin string) ([]Membership, error) {
	var members []Membership
	err := s.db.WithContext(ctx).
		Model(&model.PinMembership{}).
		Select("app_user_id, created_at").
		Where("bundle_id = ? AND pin = ?", bundleID, pin).
		Order("created_at DESC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNotFound
	}
	return members, nil
}
