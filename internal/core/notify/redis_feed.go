package notify

import (
	"context"
	"fmt"
	"sync"

	"delivery-proof/internal/core/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisFeed implements ChangeFeed over Redis pub/sub.
type RedisFeed struct {
	client *redis.Client
}

// NewRedisFeed creates a new Redis-backed change feed.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewRedisFeed(redisURL string) (*RedisFeed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisFeed{client: redis.NewClient(opts)}, nil
}

// Publish emits an event on the given channel.
func (f *RedisFeed) Publish(ctx context.Context, channel, event string) error {
	if err := f.client.Publish(ctx, channel, event).Err(); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", channel, err)
	}
	return nil
}

// Subscribe registers fn for every event on the channel. Delivery stops once
// the returned Subscription is closed.
func (f *RedisFeed) Subscribe(ctx context.Context, channel string, fn func(event string)) (Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channel)

	// Wait for the subscription to be confirmed so no event published after
	// this call returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	sub := &redisSubscription{pubsub: pubsub}

	go func() {
		for msg := range pubsub.Channel() {
			sub.mu.Lock()
			closed := sub.closed
			sub.mu.Unlock()
			if closed {
				return
			}
			fn(msg.Payload)
		}
		logger.Named("notify").Debug("Feed subscription drained", zap.String("channel", channel))
	}()

	return sub, nil
}

// Close tears down the underlying Redis connection.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}

// redisSubscription wraps a redis PubSub handle.
type redisSubscription struct {
	pubsub *redis.PubSub
	mu     sync.Mutex
	closed bool
}

// Close stops event delivery. Safe to call multiple times.
func (s *redisSubscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.pubsub.Close()
}
