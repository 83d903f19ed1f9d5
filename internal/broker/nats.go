package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSGateway publishes jobs to NATS JetStream. Publishes are synchronous:
// the call blocks until the server quorum acknowledges the message or the
// timeout expires. The message key is carried as Nats-Msg-Id, giving the
// broker the same partition-affinity/dedup handle a Kafka key would.
type NATSGateway struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	timeout time.Duration
	log     zerolog.Logger
}

// Connect dials the broker and prepares a JetStream context.
func Connect(url string, connectTimeout, publishTimeout time.Duration, log zerolog.Logger) (*NATSGateway, error) {
	nc, err := nats.Connect(url,
		nats.Timeout(connectTimeout),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("broker connect failed: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream context failed: %w", err)
	}

	return &NATSGateway{
		nc:      nc,
		js:      js,
		timeout: publishTimeout,
		log:     log.With().Str("component", "broker").Logger(),
	}, nil
}

// Enqueue publishes one JSON payload to a topic and waits for the server
// acknowledgment. There is no retry here: a failure is the caller's to
// handle.
func (g *NATSGateway) Enqueue(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err = g.js.Publish(topic, data, nats.MsgId(key), nats.Context(pubCtx))
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	g.log.Debug().Str("topic", topic).Str("key", key).Msg("job enqueued")
	return nil
}

// Healthy reports whether the broker connection is usable.
func (g *NATSGateway) Healthy(ctx context.Context) error {
	if !g.nc.IsConnected() {
		return fmt.Errorf("broker not connected (status %s)", g.nc.Status())
	}

	infoCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.js.AccountInfo(nats.Context(infoCtx)); err != nil {
		return fmt.Errorf("jetstream unavailable: %w", err)
	}
	return nil
}

// URL returns the configured broker address, for the operability endpoints.
func (g *NATSGateway) URL() string {
	return g.nc.ConnectedUrl()
}

// Close drains the connection.
func (g *NATSGateway) Close() {
	if err := g.nc.Drain(); err != nil {
		g.log.Warn().Err(err).Msg("broker drain failed")
	}
}
