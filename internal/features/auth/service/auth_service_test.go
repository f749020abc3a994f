package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery-proof/internal/core/cache"
	"delivery-proof/internal/core/notify"
	"delivery-proof/internal/features/auth/adapters"
	"delivery-proof/internal/features/auth/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepository serves a single account from memory.
type fakeUserRepository struct {
	user *domain.User
	err  error
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, nil
}

// nopFeed satisfies notify.ChangeFeed while recording published events.
type nopFeed struct {
	events []string
}

func (f *nopFeed) Publish(ctx context.Context, channel, event string) error {
	f.events = append(f.events, channel+":"+event)
	return nil
}

func (f *nopFeed) Subscribe(ctx context.Context, channel string, fn func(event string)) (notify.Subscription, error) {
	return nopSubscription{}, nil
}

func (f *nopFeed) Close() error { return nil }

type nopSubscription struct{}

func (nopSubscription) Close() error { return nil }

func newTestAuthService(t *testing.T, users *fakeUserRepository) (*AuthServiceImpl, *nopFeed) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	feed := &nopFeed{}
	tokens := adapters.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, c, feed), feed
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	users := &fakeUserRepository{user: &domain.User{
		ID:           "u-1",
		Email:        "manager@example.com",
		PasswordHash: hashPassword(t, "correct horse"),
	}}

	t.Run("Success", func(t *testing.T) {
		svc, feed := newTestAuthService(t, users)

		session, err := svc.SignIn(ctx, "manager@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "u-1", session.Identity.ID)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(time.Now()))
		assert.Contains(t, feed.events, "sessions:changed:signin")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, _ := newTestAuthService(t, users)

		session, err := svc.SignIn(ctx, "manager@example.com", "wrong")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, _ := newTestAuthService(t, users)

		session, err := svc.SignIn(ctx, "nobody@example.com", "whatever")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("RepoError", func(t *testing.T) {
		svc, _ := newTestAuthService(t, &fakeUserRepository{err: errors.New("db down")})

		session, err := svc.SignIn(ctx, "manager@example.com", "correct horse")
		assert.Nil(t, session)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_CurrentIdentity(t *testing.T) {
	ctx := context.Background()
	users := &fakeUserRepository{user: &domain.User{
		ID:           "u-1",
		Email:        "manager@example.com",
		PasswordHash: hashPassword(t, "correct horse"),
	}}

	t.Run("LiveSession", func(t *testing.T) {
		svc, _ := newTestAuthService(t, users)

		session, err := svc.SignIn(ctx, "manager@example.com", "correct horse")
		require.NoError(t, err)

		identity, err := svc.CurrentIdentity(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", identity.ID)
		assert.Equal(t, "manager@example.com", identity.Email)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		svc, _ := newTestAuthService(t, users)

		identity, err := svc.CurrentIdentity(ctx, "garbage")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestAuthService_SignOut(t *testing.T) {
	ctx := context.Background()
	users := &fakeUserRepository{user: &domain.User{
		ID:           "u-1",
		Email:        "manager@example.com",
		PasswordHash: hashPassword(t, "correct horse"),
	}}

	t.Run("RevokesSession", func(t *testing.T) {
		svc, feed := newTestAuthService(t, users)

		session, err := svc.SignIn(ctx, "manager@example.com", "correct horse")
		require.NoError(t, err)

		require.NoError(t, svc.SignOut(ctx, session.Token))
		assert.Contains(t, feed.events, "sessions:changed:signout")

		identity, err := svc.CurrentIdentity(ctx, session.Token)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, domain.ErrSessionRevoked)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		svc, _ := newTestAuthService(t, users)

		err := svc.SignOut(ctx, "garbage")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}
