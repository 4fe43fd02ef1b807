// Package notify carries the fire-and-forget "bookings changed" signal
// between the API and its subscribers. The signal has no payload: it may
// arrive zero, one or many times per actual change, and consumers are
// expected to respond with an idempotent re-query.
package notify

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier publishes and subscribes to untyped change signals for the
// bookings table.
type Notifier interface {
	// PublishChanged signals that the booking set changed. Failures are
	// logged, never surfaced: delivery is best effort.
	PublishChanged(ctx context.Context)
	// Subscribe returns a channel that receives a tick per delivered
	// signal plus a cancel func releasing the subscription.
	Subscribe(ctx context.Context) (<-chan struct{}, func())
}

// RedisNotifier implements Notifier over a Redis pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier builds a notifier on the given channel.
func NewRedisNotifier(client *redis.Client, channel string, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if channel == "" {
		channel = "bookings.changed"
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// PublishChanged emits an untyped signal on the change channel.
func (n *RedisNotifier) PublishChanged(ctx context.Context) {
	if err := n.client.Publish(ctx, n.channel, "changed").Err(); err != nil {
		n.logger.Warn("publish change signal failed", zap.Error(err))
	}
}

// Subscribe relays pub/sub messages as empty ticks. A slow consumer never
// blocks the relay; pending ticks collapse into one.
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan struct{}, func()) {
	sub := n.client.Subscribe(ctx, n.channel)
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		for range sub.Channel() {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			n.logger.Warn("close change subscription failed", zap.Error(err))
		}
	}
	return out, cancel
}

// NopNotifier drops every signal. It stands in when Redis is unavailable
// so the API keeps serving without live updates.
type NopNotifier struct{}

// PublishChanged does nothing.
func (NopNotifier) PublishChanged(context.Context) {}

// Subscribe returns a channel that never ticks.
func (NopNotifier) Subscribe(ctx context.Context) (<-chan struct{}, func()) {
	return make(chan struct{}), func() {}
}
