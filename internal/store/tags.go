package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"push-dispatch-backend/internal/model"
)

// ListTags returns every tag in the bundle with its distinct-member count.
func (s *gormStore) ListTags(ctx context.Context, bundleID string) ([]TagSummary, error) {
	var tags []TagSummary
	err := s.db.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.id, tags.name, tags.created_at, tags.updated_at, COUNT(DISTINCT tag_memberships.app_user_id) AS user_count").
		Joins("LEFT JOIN tag_memberships ON tag_memberships.tag_id = tags.id AND tag_memberships.bundle_id = tags.bundle_id").
		Where("tags.bundle_id = ?", bundleID).
		Group("tags.id, tags.name, tags.created_at, tags.updated_at").
		Order("tags.name").
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag inserts a tag. The (bundle, name) unique index is the source of
// truth for duplicates: a conflicting insert is reported as ErrConflict
// without a racy exists-check.
func (s *gormStore) CreateTag(ctx context.Context, bundleID string, clientID int64, name string) (*model.Tag, error) {
	tag := model.Tag{
		ClientID: clientID,
		BundleID: bundleID,
		Name:     name,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	return &tag, nil
}

// GetTag returns one tag with its member count.
func (s *gormStore) GetTag(ctx context.Context, bundleID string, tagID int64) (*TagSummary, error) {
	var tag model.Tag
	err := s.db.WithContext(ctx).
		Where("bundle_id = ? AND id = ?", bundleID, tagID).
		First(&tag).Error
	if err != nil {
		return nil, notFound(err)
	}

	count, err := s.UserCountForTag(ctx, bundleID, tagID)
	if err != nil {
		return nil, err
	}

	return &TagSummary{
		ID:        tag.ID,
		Name:      tag.Name,
		UserCount: count,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}, nil
}

// RenameTag changes a tag's name, refusing names already taken in the
// bundle.
func (s *gormStore) RenameTag(ctx context.Context, bundleID string, tagID int64, name string) (*model.Tag, error) {
	var tag model.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ? AND id = ?", bundleID, tagID).First(&tag).Error; err != nil {
			return notFound(err)
		}

		var taken int64
		if err := tx.Model(&model.Tag{}).
			Where("bundle_id = ? AND name = ? AND id <> ?", bundleID, name, tagID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrConflict
		}

		tag.Name = name
		tag.UpdatedAt = time.Now()
		return tx.Save(&tag).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag and all of its memberships in one transaction.
func (s *gormStore) DeleteTag(ctx context.Context, bundleID string, tagID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("bundle_id = ? AND id = ?", bundleID, tagID).Delete(&model.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("bundle_id = ? AND tag_id = ?", bundleID, tagID).
			Delete(&model.TagMembership{}).Error
	})
}

// AddTagMembers adds users to a tag. Duplicate memberships are skipped via
// ON CONFLICT DO NOTHING, so concurrent adds of the same user cannot race.
func (s *gormStore) AddTagMembers(ctx context.Context, bundleID string, tagID int64, userIDs []int64) (added, skipped int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taggedCount int64
		if err := tx.Model(&model.Tag{}).
			Where("bundle_id = ? AND id = ?", bundleID, tagID).
			Count(&taggedCount).Error; err != nil {
			return err
		}
		if taggedCount == 0 {
			return ErrNotFound
		}

		for _, userID := range userIDs {
			m := model.TagMembership{
				BundleID:  bundleID,
				TagID:     tagID,
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

// RemoveTagMembers removes users from a tag.
func (s *gormStore) RemoveTagMembers(ctx context.Context, bundleID string, tagID int64, userIDs []int64) (int64, error) {
	var taggedCount int64
	if err := s.db.WithContext(ctx).Model(&model.Tag{}).
		Where("bundle_id = ? AND id = ?", bundleID, tagID).
		Count(&taggedCount).Error; err != nil {
		return 0, err
	}
	if taggedCount == 0 {
		return 0, ErrNotFound
	}

	res := s.db.WithContext(ctx).
		Where("bundle_id = ? AND tag_id = ? AND app_user_id IN ?", bundleID, tagID, userIDs).
		Delete(&model.TagMembership{})
	return res.RowsAffected, res.Error
}

// TagMembers lists a tag's members, most recently added first.
func (s *gormStore) TagMembers(ctx context.Context, bundleID string, tagID int64) ([]Membership, error) {
	var taggedCount int64
	if err := s.db.WithContext(ctx).Model(&model.Tag{}).
		Where("bundle_id = ? AND id = ?", bundleID, tagID).
		Count(&taggedCount).Error; err != nil {
		return nil, err
	}
	if taggedCount == 0 {
		return nil, ErrNotFound
	}

	var members []Membership
	err := s.db.WithContext(ctx).
		Model(&model.TagMembership{}).
		Select("app_user_id, created_at").
		Where("bundle_id = ? AND tag_id = ?", bundleID, tagID).
		Order("created_at DESC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
