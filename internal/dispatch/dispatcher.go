package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"push-dispatch-backend/internal/model"
	"push-dispatch-backend/internal/store"
)

// DefaultCategory is used when a send request carries no channel.
const DefaultCategory = "system"

// Gateway is the outbound queue contract. Enqueue must block until the
// broker acknowledges receipt; an error means the job was not accepted.
type Gateway interface {
	Enqueue(ctx context.Context, topic, key string, payload any) error
}

// PushJob is the payload handed to the downstream delivery pipeline, keyed
// by the message id for partition affinity.
type PushJob struct {
	BundleID  string `json:"bundle_id"`
	MessageID int64  `json:"message_id"`
}

// Content is the notification text shown to the recipient.
type Content struct {
	Title string
	Body  string
}

// Meta carries the optional send attributes the ledger persists.
type Meta struct {
	Channel string
	Route   string
}

// UserSend targets a single user, named either by id or by pin. Exactly one
// of the two must be set.
type UserSend struct {
	UserID  *int64
	Pin     *string
	Content Content
	Meta    Meta
}

// DeviceSend targets the user a device is linked to.
type DeviceSend struct {
	DeviceID string
	Content  Content
	Meta     Meta
}

// GroupSend targets every holder of a tag, by tag name.
type GroupSend struct {
	Tag     string
	Content Content
	Meta    Meta
}

// BulkSend targets a heterogeneous list of users, pins and devices.
type BulkSend struct {
	Targets []Target
	Content Content
	Meta    Meta
}

// Receipt is the accepted result of a single-recipient send.
type Receipt struct {
	PushID      string `json:"push_id"`
	TargetUsers int64  `json:"target_users,omitempty"`
}

// BulkReceipt is the accepted result of a bulk send, with per-target
// failure accounting. Every input target lands in exactly one bucket:
// resolved (then deduplicated into Successful) or FailedTargets.
type BulkReceipt struct {
	TotalTargets  int            `json:"total_targets"`
	Successful    int            `json:"successful"`
	Failed        int            `json:"failed"`
	PushIDs       []string       `json:"push_ids"`
	FailedTargets []FailedTarget `json:"failed_targets"`
}

// Dispatcher turns a send request into ledger rows plus broker jobs, as one
// transaction per request: if the enqueue fails, the rows never existed.
type Dispatcher struct {
	store store.Store
	gw    Gateway
	topic string
	log   zerolog.Logger
}

// NewDispatcher wires the dispatcher. topic is the push-dispatch subject
// every job is published to.
func NewDispatcher(s store.Store, gw Gateway, topic string, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store: s,
		gw:    gw,
		topic: topic,
		log:   log.With().Str("component", "dispatcher").Logger(),
	}
}

// SendToUser sends to a single user named by id or pin.
func (d *Dispatcher) SendToUser(ctx context.Context, bundleID string, req UserSend) (*Receipt, error) {
	// Validation guarantees the shape, but resolution still has to branch
	// on it, so the precondition is re-checked here.
	if (req.UserID == nil) == (req.Pin == nil) {
		return nil, InvalidInput("exactly one of user_id or pin is required", nil)
	}

	var userID int64
	if req.UserID != nil {
		userID = *req.UserID
	} else {
		id, err := d.store.UserIDForPin(ctx, bundleID, *req.Pin)
		if err != nil {
			return nil, d.lookupErr(err, "pin not found")
		}
		userID = id
	}

	msg := d.newMessage(bundleID, req.Content, req.Meta, model.AudienceUser, userID)
	if err := d.commit(ctx, bundleID, msg); err != nil {
		return nil, err
	}
	return &Receipt{PushID: pushID(msg.ID)}, nil
}

// SendToDevice sends to the user a device is linked to.
func (d *Dispatcher) SendToDevice(ctx context.Context, bundleID string, req DeviceSend) (*Receipt, error) {
	userID, err := d.store.UserIDForDevice(ctx, bundleID, req.DeviceID)
	if err != nil {
		return nil, d.lookupErr(err, "device not found or not linked to user")
	}

	msg := d.newMessage(bundleID, req.Content, req.Meta, model.AudienceDevice, userID)
	if err := d.commit(ctx, bundleID, msg); err != nil {
		return nil, err
	}
	return &Receipt{PushID: pushID(msg.ID)}, nil
}

// SendToGroup sends to every holder of a tag. Exactly one ledger row is
// written, referencing the tag id; fan-out to individual users happens
// downstream.
func (d *Dispatcher) SendToGroup(ctx context.Context, bundleID string, req GroupSend) (*Receipt, error) {
	tagID, err := d.store.TagIDForName(ctx, bundleID, req.Tag)
	if err != nil {
		return nil, d.lookupErr(err, "tag not found")
	}

	userCount, err := d.store.UserCountForTag(ctx, bundleID, tagID)
	if err != nil {
		return nil, d.storageErr(err)
	}
	if userCount == 0 {
		return nil, NotFound("no users found with this tag")
	}

	msg := d.newMessage(bundleID, req.Content, req.Meta, model.AudienceTag, tagID)
	if err := d.commit(ctx, bundleID, msg); err != nil {
		return nil, err
	}
	return &Receipt{PushID: pushID(msg.ID), TargetUsers: userCount}, nil
}

// SendBulk resolves every target independently, deduplicates the resolved
// users, and writes one message per unique user. Resolution failures are
// tolerated per target; once resolution is done the ledger writes and
// enqueues are all-or-nothing.
func (d *Dispatcher) SendBulk(ctx context.Context, bundleID string, req BulkSend) (*BulkReceipt, error) {
	failed := []FailedTarget{}
	seen := make(map[int64]struct{}, len(req.Targets))
	var userIDs []int64

	for _, t := range req.Targets {
		userID, err := resolveTarget(ctx, d.store, bundleID, t)
		if err != nil {
			failed = append(failed, FailedTarget{
				Kind:   t.Kind,
				Value:  string(t.Value),
				Reason: reasonFor(err),
			})
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		userIDs = append(userIDs, userID)
	}

	if len(userIDs) == 0 {
		return nil, InvalidInput("no valid targets found", map[string]any{"failed_targets": failed})
	}

	msgs := make([]*model.Message, len(userIDs))
	for i, userID := range userIDs {
		msgs[i] = d.newMessage(bundleID, req.Content, req.Meta, model.AudienceUser, userID)
	}
	if err := d.commit(ctx, bundleID, msgs...); err != nil {
		return nil, err
	}

	pushIDs := make([]string, len(msgs))
	for i, msg := range msgs {
		pushIDs[i] = pushID(msg.ID)
	}

	return &BulkReceipt{
		TotalTargets:  len(req.Targets),
		Successful:    len(msgs),
		Failed:        len(failed),
		PushIDs:       pushIDs,
		FailedTargets: failed,
	}, nil
}

// commit writes the messages and enqueues one delivery job per message
// inside a single transaction. Any enqueue failure rolls back every row.
func (d *Dispatcher) commit(ctx context.Context, bundleID string, msgs ...*model.Message) error {
	return d.store.InTransaction(ctx, func(tx store.Store) error {
		for _, msg := range msgs {
			if err := tx.CreateMessage(ctx, msg); err != nil {
				d.log.Error().Err(err).Str("bundle_id", bundleID).Msg("message insert failed")
				return d.storageErr(err)
			}

			job := PushJob{BundleID: bundleID, MessageID: msg.ID}
			if err := d.gw.Enqueue(ctx, d.topic, pushID(msg.ID), job); err != nil {
				d.log.Error().Err(err).
					Str("bundle_id", bundleID).
					Int64("message_id", msg.ID).
					Msg("broker enqueue failed")
				return DependencyFailure("failed to queue message")
			}
		}
		return nil
	})
}

// newMessage builds a scheduled ledger row with sanitized content.
func (d *Dispatcher) newMessage(bundleID string, content Content, meta Meta, audienceType string, audienceRef int64) *model.Message {
	category := meta.Channel
	if category == "" {
		category = DefaultCategory
	}

	var actionURL *string
	if meta.Route != "" {
		route := meta.Route
		actionURL = &route
	}

	return &model.Message{
		BundleID:     bundleID,
		Category:     category,
		Title:        sanitize(content.Title),
		Body:         sanitize(content.Body),
		ActionURL:    actionURL,
		AudienceType: audienceType,
		AudienceRef:  audienceRef,
		Status:       model.StatusScheduled,
	}
}

// lookupErr maps a directory lookup error onto the taxonomy.
func (d *Dispatcher) lookupErr(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFound(notFoundMsg)
	}
	return d.storageErr(err)
}

func (d *Dispatcher) storageErr(err error) error {
	d.log.Error().Err(err).Msg("storage error")
	return PersistenceFailure("storage error")
}

// pushID formats the opaque identifier returned for one enqueued message.
func pushID(messageID int64) string {
	return fmt.Sprintf("push_%010d", messageID)
}
