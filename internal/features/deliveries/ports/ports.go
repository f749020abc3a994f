package ports

import (
	"context"
	"time"

	"delivery-proof/internal/features/deliveries/domain"
)

// NewDelivery carries the fields a manager supplies when creating a delivery.
// Field validation is the caller's responsibility; the store forwards them
// to the remote boundary untouched.
type NewDelivery struct {
	ClientName string
	Address    string
	Notes      string
}

// DeliveryRepository is the secondary port for the remote delivery store.
type DeliveryRepository interface {
	// Insert creates a pending delivery and returns it with its assigned id.
	Insert(ctx context.Context, fields NewDelivery) (*domain.Delivery, error)

	// Complete marks a pending delivery completed with the given photo.
	// Returns domain.ErrDeliveryNotFound if no pending row matches the id.
	Complete(ctx context.Context, id, photo string, completedAt time.Time) error

	// List returns all visible deliveries ordered by creation time descending.
	List(ctx context.Context) ([]domain.Delivery, error)
}

// DeliveryStore is the primary port: an in-memory snapshot of the delivery
// collection kept live against the remote store.
type DeliveryStore interface {
	// List returns the current snapshot, creation time descending.
	List() []domain.Delivery

	// GetByID looks up a record in the current snapshot.
	GetByID(id string) (domain.Delivery, bool)

	// Refresh re-fetches the full record set and swaps the snapshot
	// atomically. On failure the previous snapshot is kept and a user
	// notification is published; no error is raised.
	Refresh(ctx context.Context)

	// Add inserts a new pending delivery remotely, then refreshes.
	Add(ctx context.Context, fields NewDelivery) error

	// Complete marks a delivery completed remotely, then refreshes.
	Complete(ctx context.Context, id, photo string) error

	// Close tears down the change-feed subscription.
	Close() error
}
