package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/core/notify"
	"delivery-proof/internal/features/deliveries/domain"
	"delivery-proof/internal/features/deliveries/ports"
	notifdomain "delivery-proof/internal/features/notifications/domain"
	notifports "delivery-proof/internal/features/notifications/ports"

	"go.uber.org/zap"
)

// Store keeps an in-memory snapshot of the delivery collection and keeps it
// live against the remote store: every change-feed event, regardless of which
// session caused it, triggers a full re-fetch and an atomic snapshot swap.
//
// A monotonically increasing generation counter discards completions of stale
// overlapping refreshes, so the visible snapshot always corresponds to the
// most recently issued refresh that succeeded.
type Store struct {
	repo     ports.DeliveryRepository
	notifier notifports.Notifier
	log      *zap.Logger

	mu       sync.Mutex
	snapshot []domain.Delivery
	issued   uint64 // generation handed to the latest refresh
	applied  uint64 // generation of the snapshot currently visible
	sub      notify.Subscription
	closed   bool
}

// New creates a Store, performs the initial fetch and subscribes to the
// delivery change feed. The subscription lives until Close.
func New(ctx context.Context, repo ports.DeliveryRepository, feed notify.ChangeFeed, notifier notifports.Notifier) (*Store, error) {
	s := &Store{
		repo:     repo,
		notifier: notifier,
		log:      logger.Named("store"),
	}

	sub, err := feed.Subscribe(ctx, notify.ChannelDeliveries, func(event string) {
		s.log.Debug("Delivery change event", zap.String("event", event))
		s.Refresh(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to subscribe to change feed: %w", err)
	}
	s.sub = sub

	s.Refresh(ctx)
	return s, nil
}

// List returns a copy of the current snapshot, creation time descending.
func (s *Store) List() []domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Delivery, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// GetByID looks up a record in the current snapshot.
func (s *Store) GetByID(id string) (domain.Delivery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.snapshot {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Delivery{}, false
}

// Refresh re-fetches the full record set and swaps the snapshot atomically.
// On failure the previous snapshot is kept, a notification is surfaced and no
// error is raised to the caller.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Refresh failed, keeping previous snapshot", zap.Error(err))
		s.notifier.Notify(ctx, notifdomain.NotificationTypeDanger,
			"Sync failed", "Could not load deliveries. Check your connection and try again.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen <= s.applied {
		// A refresh issued after this one already landed.
		return
	}
	s.applied = gen
	s.snapshot = records
}

// Add inserts a new pending delivery remotely, then refreshes. The new record
// only appears after a successful round-trip; there is no optimistic insert.
func (s *Store) Add(ctx context.Context, fields ports.NewDelivery) error {
	if _, err := s.repo.Insert(ctx, fields); err != nil {
		s.log.Error("Failed to add delivery", zap.Error(err), zap.String("client", fields.ClientName))
		s.notifier.Notify(ctx, notifdomain.NotificationTypeDanger,
			"Could not add delivery", "The delivery was not saved. Please try again.")
		return fmt.Errorf("store: failed to add delivery: %w", err)
	}

	s.Refresh(ctx)
	return nil
}

// Complete marks a delivery completed remotely with the confirmation photo,
// then refreshes. Completing an id with no pending row is an error: the
// caller must not believe a completion happened when zero rows changed.
func (s *Store) Complete(ctx context.Context, id, photo string) error {
	if err := s.repo.Complete(ctx, id, photo, time.Now().UTC()); err != nil {
		s.log.Error("Failed to complete delivery", zap.Error(err), zap.String("id", id))
		s.notifier.Notify(ctx, notifdomain.NotificationTypeDanger,
			"Could not complete delivery", "The delivery was not marked as completed. Please try again.")
		return fmt.Errorf("store: failed to complete delivery %s: %w", id, err)
	}

	s.Refresh(ctx)
	return nil
}

// Close tears down the change-feed subscription. Events arriving after Close
// never mutate the snapshot.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.sub.Close()
}
