package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-proof/internal/core/cache"
	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/core/notify"
	"delivery-proof/internal/features/auth/domain"
	"delivery-proof/internal/features/auth/ports"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const revokedKeyPrefix = "revoked_session:"

// AuthServiceImpl implements ports.AuthService. Sign-out revocation is kept
// in the cache keyed by token id, expiring when the token itself would have.
type AuthServiceImpl struct {
	users  ports.UserRepository
	tokens ports.TokenManager
	cache  cache.Cache
	feed   notify.ChangeFeed
	log    *zap.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(users ports.UserRepository, tokens ports.TokenManager, c cache.Cache, feed notify.ChangeFeed) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:  users,
		tokens: tokens,
		cache:  c,
		feed:   feed,
		log:    logger.Named("auth"),
	}
}

// SignIn exchanges a credential pair for a session.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: lookup failed: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identity := domain.Identity{ID: user.ID, Email: user.Email}
	token, _, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to issue token: %w", err)
	}

	s.publishSessionEvent(ctx, "signin")

	return &domain.Session{
		Identity:  identity,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// SignOut revokes the session behind the token.
func (s *AuthServiceImpl) SignOut(ctx context.Context, token string) error {
	_, tokenID, expiresAt, err := s.tokens.Parse(token)
	if err != nil {
		return err
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}

	if err := s.cache.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("auth: failed to revoke session: %w", err)
	}

	s.publishSessionEvent(ctx, "signout")
	return nil
}

// CurrentIdentity resolves the identity behind a live session token.
func (s *AuthServiceImpl) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	identity, tokenID, _, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	_, err = s.cache.Get(ctx, revokedKeyPrefix+tokenID)
	if err == nil {
		return nil, domain.ErrSessionRevoked
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cannot tell whether the session was revoked. Fail closed.
		s.log.Error("Revocation check failed", zap.Error(err))
		return nil, domain.ErrInvalidToken
	}

	return &identity, nil
}

// publishSessionEvent emits a session-changed event. Best effort.
func (s *AuthServiceImpl) publishSessionEvent(ctx context.Context, event string) {
	if err := s.feed.Publish(ctx, notify.ChannelSessions, event); err != nil {
		s.log.Warn("Failed to publish session event", zap.Error(err), zap.String("event", event))
	}
}
