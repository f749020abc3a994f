package handler

import (
	"errors"
	"net/http"
	"strings"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/features/auth/domain"
	"delivery-proof/internal/features/auth/ports"
	notifdomain "delivery-proof/internal/features/notifications/domain"
	notifports "delivery-proof/internal/features/notifications/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for the identity/session boundary.
type AuthHandler struct {
	service  ports.AuthService
	notifier notifports.Notifier
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service ports.AuthService, notifier notifports.Notifier) *AuthHandler {
	return &AuthHandler{
		service:  service,
		notifier: notifier,
	}
}

// SignInRequest represents the credential pair.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BearerToken extracts the session token from the Authorization header.
// Returns the empty string when no bearer token is present.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// SignIn handles POST /auth/signin.
// @Summary Sign in
// @Description Exchanges an email/password pair for a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignInRequest true "Credentials"
// @Success 200 {object} domain.Session
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	ctx := c.Context()
	session, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		// Connectivity is a prerequisite at the authentication gate.
		logger.Get().Error("Sign-in failed", zap.Error(err))
		h.notifier.Notify(ctx, notifdomain.NotificationTypeDanger,
			"Sign-in failed", "Could not reach the server. Try again shortly.")
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service unavailable",
		})
	}

	return c.Status(http.StatusOK).JSON(session)
}

// SignOut handles POST /auth/signout.
// @Summary Sign out
// @Description Revokes the current session token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	token := BearerToken(c)
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing session token",
		})
	}

	ctx := c.Context()
	if err := h.service.SignOut(ctx, token); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid session token",
			})
		}
		logger.Get().Error("Sign-out failed", zap.Error(err))
		h.notifier.Notify(ctx, notifdomain.NotificationTypeDanger,
			"Sign-out failed", "Could not close the session. Try again.")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	h.notifier.Notify(ctx, notifdomain.NotificationTypeSuccess,
		"Signed out", "Your session has been closed.")
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Signed out",
	})
}

// Session handles GET /auth/session.
// @Summary Current session
// @Description Returns the identity behind the presented session token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Identity
// @Failure 401 {object} map[string]string
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token := BearerToken(c)
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing session token",
		})
	}

	identity, err := h.service.CurrentIdentity(c.Context(), token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or revoked session",
		})
	}

	return c.Status(http.StatusOK).JSON(identity)
}
