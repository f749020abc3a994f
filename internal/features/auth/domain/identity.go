package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the email/password pair is wrong.
	// Deliberately indistinguishable between unknown email and bad password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for malformed or expired session tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrSessionRevoked is returned for tokens revoked by sign-out.
	ErrSessionRevoked = errors.New("session revoked")
)

// Identity is the authenticated principal associated with a session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// User is a stored account. PasswordHash never leaves the auth feature.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// Session is an issued sign-in: a bearer token bound to an identity.
type Session struct {
	Identity  Identity  `json:"identity"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
