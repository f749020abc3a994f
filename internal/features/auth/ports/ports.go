package ports

import (
	"context"
	"time"

	"delivery-proof/internal/features/auth/domain"
)

// AuthService defines the primary port for the identity/session boundary.
type AuthService interface {
	// SignIn exchanges a credential pair for a session.
	// Returns domain.ErrInvalidCredentials on any mismatch.
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)

	// SignOut revokes the session behind the token. Revoked tokens fail
	// CurrentIdentity until they would have expired anyway.
	SignOut(ctx context.Context, token string) error

	// CurrentIdentity resolves the identity behind a live session token.
	CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error)
}

// UserRepository defines the secondary port for account storage.
type UserRepository interface {
	// FindByEmail returns the user, or nil if no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenManager issues and parses session tokens.
type TokenManager interface {
	// Issue creates a token for the identity. The returned token id is the
	// revocation handle.
	Issue(identity domain.Identity) (token, tokenID string, expiresAt time.Time, err error)

	// Parse validates a token and returns the identity, the token id and the
	// expiry. Returns domain.ErrInvalidToken on any validation failure.
	Parse(token string) (identity domain.Identity, tokenID string, expiresAt time.Time, err error)
}
