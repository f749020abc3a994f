package ports

import (
	"context"

	"delivery-proof/internal/features/notifications/domain"
)

// Notifier is the side channel through which failures (and the occasional
// success) are surfaced to the user. Implementations must never fail the
// caller: surfacing a notification is best effort.
type Notifier interface {
	Notify(ctx context.Context, notificationType domain.NotificationType, title, message string)
}

// NotificationService defines the primary port for notification operations.
type NotificationService interface {
	Notifier

	// Latest returns the most recent notification, or nil if none is active.
	Latest(ctx context.Context) (*domain.Notification, error)
}

// NotificationRepository defines the secondary port for notification storage.
type NotificationRepository interface {
	Save(ctx context.Context, notification *domain.Notification) error
	Latest(ctx context.Context) (*domain.Notification, error)
}
