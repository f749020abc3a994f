package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-proof/internal/core/cache"
	"delivery-proof/internal/features/notifications/domain"
)

const notificationCacheKey = "last_notification"

// notificationTTL bounds how long a notification stays visible. Notifications
// are toast-like; a stale one is worse than none.
const notificationTTL = 60 * time.Second

// RedisNotificationRepository implements ports.NotificationRepository using the cache port.
type RedisNotificationRepository struct {
	cache cache.Cache
}

// NewRedisNotificationRepository creates a new RedisNotificationRepository.
func NewRedisNotificationRepository(c cache.Cache) *RedisNotificationRepository {
	return &RedisNotificationRepository{
		cache: c,
	}
}

// Save stores the notification, replacing any previous one.
func (r *RedisNotificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := r.cache.Set(ctx, notificationCacheKey, data, notificationTTL); err != nil {
		return fmt.Errorf("failed to save notification to cache: %w", err)
	}

	return nil
}

// Latest retrieves the most recent notification, or nil if none is active.
func (r *RedisNotificationRepository) Latest(ctx context.Context) (*domain.Notification, error) {
	data, err := r.cache.Get(ctx, notificationCacheKey)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification from cache: %w", err)
	}

	var notification domain.Notification
	if err := json.Unmarshal(data, &notification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	return &notification, nil
}
