package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"delivery-proof/internal/features/auth/domain"
	notifdomain "delivery-proof/internal/features/notifications/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

// nopNotifier discards notifications.
type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, notificationType notifdomain.NotificationType, title, message string) {
}

func setupApp(service *MockAuthService) *fiber.App {
	app := fiber.New()
	handler := NewAuthHandler(service, nopNotifier{})
	app.Post("/auth/signin", handler.SignIn)
	app.Post("/auth/signout", handler.SignOut)
	app.Get("/auth/session", handler.Session)
	return app
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		session := &domain.Session{
			Identity: domain.Identity{ID: "u-1", Email: "manager@example.com"},
			Token:    "jwt-token",
		}
		service.On("SignIn", mock.Anything, "manager@example.com", "pw").Return(session, nil).Once()

		body, _ := json.Marshal(SignInRequest{Email: "manager@example.com", Password: "pw"})
		req := httptest.NewRequest("POST", "/auth/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got domain.Session
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "jwt-token", got.Token)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		service.On("SignIn", mock.Anything, "manager@example.com", "wrong").Return(nil, domain.ErrInvalidCredentials).Once()

		body, _ := json.Marshal(SignInRequest{Email: "manager@example.com", Password: "wrong"})
		req := httptest.NewRequest("POST", "/auth/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("MissingFields", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		body, _ := json.Marshal(SignInRequest{Email: "manager@example.com"})
		req := httptest.NewRequest("POST", "/auth/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		service.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ServiceUnavailable", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		service.On("SignIn", mock.Anything, "manager@example.com", "pw").Return(nil, errors.New("db unreachable")).Once()

		body, _ := json.Marshal(SignInRequest{Email: "manager@example.com", Password: "pw"})
		req := httptest.NewRequest("POST", "/auth/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestAuthHandler_SignOut(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		service.On("SignOut", mock.Anything, "jwt-token").Return(nil).Once()

		req := httptest.NewRequest("POST", "/auth/signout", nil)
		req.Header.Set("Authorization", "Bearer jwt-token")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("NoToken", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		req := httptest.NewRequest("POST", "/auth/signout", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthHandler_Session(t *testing.T) {
	t.Run("Live", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		identity := &domain.Identity{ID: "u-1", Email: "manager@example.com"}
		service.On("CurrentIdentity", mock.Anything, "jwt-token").Return(identity, nil).Once()

		req := httptest.NewRequest("GET", "/auth/session", nil)
		req.Header.Set("Authorization", "Bearer jwt-token")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Revoked", func(t *testing.T) {
		service := new(MockAuthService)
		app := setupApp(service)

		service.On("CurrentIdentity", mock.Anything, "jwt-token").Return(nil, domain.ErrSessionRevoked).Once()

		req := httptest.NewRequest("GET", "/auth/session", nil)
		req.Header.Set("Authorization", "Bearer jwt-token")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
