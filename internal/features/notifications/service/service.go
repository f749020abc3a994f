package service

import (
	"context"
	"fmt"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/features/notifications/domain"
	"delivery-proof/internal/features/notifications/ports"

	"go.uber.org/zap"
)

// NotificationServiceImpl implements ports.NotificationService.
type NotificationServiceImpl struct {
	repo ports.NotificationRepository
}

// NewNotificationService creates a new NotificationServiceImpl.
func NewNotificationService(repo ports.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo: repo,
	}
}

// Notify records a user-facing notification. Failures to persist it are
// logged and swallowed; a broken toast must not break the operation that
// triggered it.
func (s *NotificationServiceImpl) Notify(ctx context.Context, notificationType domain.NotificationType, title, message string) {
	log := logger.Named("notifications")

	notification, err := domain.NewNotification(title, message, notificationType)
	if err != nil {
		log.Error("Dropping malformed notification", zap.Error(err), zap.String("title", title))
		return
	}

	log.Info("User notification",
		zap.String("type", string(notificationType)),
		zap.String("title", title),
		zap.String("message", message),
	)

	if err := s.repo.Save(ctx, notification); err != nil {
		log.Error("Failed to persist notification", zap.Error(err))
	}
}

// Latest returns the most recent notification, or nil if none is active.
func (s *NotificationServiceImpl) Latest(ctx context.Context) (*domain.Notification, error) {
	notification, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get notification: %w", err)
	}

	return notification, nil
}
