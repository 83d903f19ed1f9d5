package api

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"push-dispatch-backend/internal/broker"
	"push-dispatch-backend/internal/dispatch"
	"push-dispatch-backend/internal/mw"
	"push-dispatch-backend/internal/store"
)

// BrokerStatus is the view of the broker the operability endpoints need.
type BrokerStatus interface {
	Healthy(ctx context.Context) error
	URL() string
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	dispatcher *dispatch.Dispatcher
	events     dispatch.Gateway
	status     BrokerStatus
	topics     broker.Topics
	log        zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, d *dispatch.Dispatcher, events dispatch.Gateway, status BrokerStatus, topics broker.Topics, log zerolog.Logger) *Handler {
	return &Handler{
		store:      s,
		dispatcher: d,
		events:     events,
		status:     status,
		topics:     topics,
		log:        log.With().Str("component", "api").Logger(),
	}
}

// respondStore maps store sentinel errors onto the envelope. notFoundMsg
// and conflictMsg name the resource for the caller.
func (h *Handler) respondStore(c *gin.Context, err error, notFoundMsg, conflictMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, 404, string(dispatch.KindNotFound), notFoundMsg, nil)
	case errors.Is(err, store.ErrConflict):
		respondError(c, 400, string(dispatch.KindConflict), conflictMsg, nil)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("storage error")
		respondError(c, 500, string(dispatch.KindPersistenceFailure), "storage error", nil)
	}
}

func clientFrom(c *gin.Context) (bundleID string, clientID int64) {
	client := mw.ClientFrom(c)
	return client.BundleID, client.ID
}
