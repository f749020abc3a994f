package adapters

import (
	"context"
	"testing"
	"time"

	"delivery-proof/internal/core/cache"
	"delivery-proof/internal/features/notifications/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*RedisNotificationRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return NewRedisNotificationRepository(adapter), mr
}

func TestRedisNotificationRepository_SaveAndLatest(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	notification, err := domain.NewNotification("Sync failed", "Could not load deliveries", domain.NotificationTypeDanger)
	require.NoError(t, err)

	err = repo.Save(ctx, notification)
	require.NoError(t, err)

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sync failed", got.Title)
	assert.Equal(t, domain.NotificationTypeDanger, got.Type)
}

func TestRedisNotificationRepository_LatestNone(t *testing.T) {
	repo, _ := newTestRepository(t)

	got, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisNotificationRepository_Expiry(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	notification, err := domain.NewNotification("Camera busy", "The camera is in use", domain.NotificationTypeDanger)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, notification))

	mr.FastForward(2 * time.Minute)

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisNotificationRepository_SaveReplaces(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first, err := domain.NewNotification("First", "m1", domain.NotificationTypeInfo)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := domain.NewNotification("Second", "m2", domain.NotificationTypeSuccess)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Second", got.Title)
}
