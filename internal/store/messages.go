package store

import (
	"context"

	"push-dispatch-backend/internal/model"
)

// CreateMessage appends one message row to the ledger. The dispatcher calls
// this inside InTransaction so the row only becomes visible together with a
// successful broker enqueue.
func (s *gormStore) CreateMessage(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// GetMessage reads one message back, bundle-scoped.
func (s *gormStore) GetMessage(ctx context.Context, bundleID string, id int64) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).
		Where("bundle_id = ? AND id = ?", bundleID, id).
		First(&msg).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &msg, nil
}
