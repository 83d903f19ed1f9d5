package store

import (
	"context"
	"time"

	"push-dispatch-backend/internal/model"
)

// ClientByToken looks up an API client by its x-api-key token. The auth
// middleware is the only caller; inactive clients are still returned so the
// middleware can distinguish invalid from inactive.
func (s *gormStore) ClientByToken(ctx context.Context, token string) (*model.ApiClient, error) {
	var c model.ApiClient
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// UpdateClient changes the self-serviceable fields of a client.
func (s *gormStore) UpdateClient(ctx context.Context, bundleID string, upd ClientUpdate) (*model.ApiClient, error) {
	fields := map[string]any{"updated_at": time.Now()}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.FCMPath != nil {
		fields["fcm_path"] = *upd.FCMPath
	}

	res := s.db.WithContext(ctx).
		Model(&model.ApiClient{}).
		Where("bundle_id = ?", bundleID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var c model.ApiClient
	if err := s.db.WithContext(ctx).Where("bundle_id = ?", bundleID).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}
