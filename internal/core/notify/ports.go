package notify

import "context"

// Feed channels used across the application.
const (
	// ChannelDeliveries fires whenever the deliveries collection is mutated,
	// regardless of which session performed the mutation.
	ChannelDeliveries = "deliveries:changed"
	// ChannelSessions fires on sign-in and sign-out events.
	ChannelSessions = "sessions:changed"
)

// ChangeFeed is the process-wide change-notification stream. Subscribers are
// told that something changed on a channel; the payload carries the mutation
// kind for logging only and consumers must not rely on it to merge state.
type ChangeFeed interface {
	// Publish emits an event on the given channel.
	Publish(ctx context.Context, channel, event string) error

	// Subscribe registers fn to be invoked for every event on the channel.
	// fn runs on the feed's own goroutine; it must not block for long.
	// The returned Subscription must be closed on teardown.
	Subscribe(ctx context.Context, channel string, fn func(event string)) (Subscription, error)

	// Close tears down the feed connection.
	Close() error
}

// Subscription is a handle to an active channel subscription.
// After Close returns, fn is never invoked again.
type Subscription interface {
	Close() error
}
