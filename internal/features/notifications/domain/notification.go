package domain

import (
	"errors"
	"time"
)

// NotificationType represents the severity of a user-facing notification.
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "INFO"
	NotificationTypeSuccess NotificationType = "SUCCESS"
	NotificationTypeDanger  NotificationType = "DANGER"
)

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
)

// Notification is a user-facing message surfaced by the application when a
// remote or device operation fails (or, for SUCCESS, completes).
type Notification struct {
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewNotification creates a new Notification and validates it.
func NewNotification(title, message string, notificationType NotificationType) (*Notification, error) {
	if notificationType != NotificationTypeInfo && notificationType != NotificationTypeSuccess && notificationType != NotificationTypeDanger {
		return nil, ErrInvalidNotificationType
	}

	return &Notification{
		Title:     title,
		Message:   message,
		Type:      notificationType,
		CreatedAt: time.Now(),
	}, nil
}
