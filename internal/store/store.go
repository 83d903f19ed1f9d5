package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"push-dispatch-backend/internal/model"
)

// Sentinel errors returned by store operations. Callers branch on these
// instead of inspecting driver errors.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Store defines the interface for all database operations. Every method is
// scoped by the caller's bundle id; cross-tenant reads are structurally
// impossible because the discriminator is part of every query.
type Store interface {
	// InTransaction runs fn inside one database transaction. The Store
	// passed to fn is bound to that transaction.
	InTransaction(ctx context.Context, fn func(tx Store) error) error

	// Recipient directory (read-only).
	UserIDForPin(ctx context.Context, bundleID, pin string) (int64, error)
	UserIDForDevice(ctx context.Context, bundleID, deviceID string) (int64, error)
	TagIDForName(ctx context.Context, bundleID, name string) (int64, error)
	UserCountForTag(ctx context.Context, bundleID string, tagID int64) (int64, error)

	// Message ledger.
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, bundleID string, id int64) (*model.Message, error)

	// API clients.
	ClientByToken(ctx context.Context, token string) (*model.ApiClient, error)
	UpdateClient(ctx context.Context, bundleID string, upd ClientUpdate) (*model.ApiClient, error)

	// Device registry.
	RegisterDevice(ctx context.Context, bundleID string, reg DeviceRegistration) (*model.Device, error)
	DeactivateDevice(ctx context.Context, bundleID, deviceID string) error
	UserDevices(ctx context.Context, bundleID string, appUserID int64) ([]model.Device, error)

	// Tags and memberships.
	ListTags(ctx context.Context, bundleID string) ([]TagSummary, error)
	CreateTag(ctx context.Context, bundleID string, clientID int64, name string) (*model.Tag, error)
	GetTag(ctx context.Context, bundleID string, tagID int64) (*TagSummary, error)
	RenameTag(ctx context.Context, bundleID string, tagID int64, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, bundleID string, tagID int64) error
	AddTagMembers(ctx context.Context, bundleID string, tagID int64, userIDs []int64) (added, skipped int, err error)
	RemoveTagMembers(ctx context.Context, bundleID string, tagID int64, userIDs []int64) (removed int64, err error)
	TagMembers(ctx context.Context, bundleID string, tagID int64) ([]Membership, error)

	// Pins and memberships.
	ListPins(ctx context.Context, bundleID string) ([]PinSummary, error)
	GetPin(ctx context.Context, bundleID, pin string) (*PinSummary, error)
	DeletePin(ctx context.Context, bundleID, pin string) (removed int64, err error)
	AddPinMembers(ctx context.Context, bundleID, pin string, userIDs []int64) (added, skipped int, err error)
	RemovePinMembers(ctx context.Context, bundleID, pin string, userIDs []int64) (removed int64, err error)
	PinMembers(ctx context.Context, bundleID, pin string) ([]Membership, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// notFound maps gorm's sentinel onto the store's.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
