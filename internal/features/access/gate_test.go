package access

import (
	"context"
	"net/http/httptest"
	"testing"

	authdomain "delivery-proof/internal/features/auth/domain"
	rolesdomain "delivery-proof/internal/features/roles/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService resolves a fixed identity for the token "valid".
type fakeAuthService struct {
	identity *authdomain.Identity
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (*authdomain.Session, error) {
	return nil, authdomain.ErrInvalidCredentials
}

func (f *fakeAuthService) SignOut(ctx context.Context, token string) error {
	return nil
}

func (f *fakeAuthService) CurrentIdentity(ctx context.Context, token string) (*authdomain.Identity, error) {
	if token == "valid" && f.identity != nil {
		return f.identity, nil
	}
	return nil, authdomain.ErrInvalidToken
}

// fakeResolver returns fixed capabilities.
type fakeResolver struct {
	caps rolesdomain.Capabilities
}

func (f *fakeResolver) Resolve(ctx context.Context, identityID string) rolesdomain.Capabilities {
	return f.caps
}

func setupGatedApp(auth *fakeAuthService, resolver *fakeResolver, required rolesdomain.RoleTag) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireRole(auth, resolver, required), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

// TestEvaluate exercises the gate state machine directly, including the
// loading state the middleware itself never reaches.
func TestEvaluate(t *testing.T) {
	manager := rolesdomain.Capabilities{IsManager: true}

	tests := []struct {
		name        string
		hasIdentity bool
		resolved    bool
		caps        rolesdomain.Capabilities
		required    rolesdomain.RoleTag
		want        Decision
	}{
		{"NoIdentity", false, true, manager, rolesdomain.RoleTagAdmin, DecisionUnauthenticated},
		{"NoIdentityBeatsLoading", false, false, rolesdomain.Capabilities{}, rolesdomain.RoleTagAdmin, DecisionUnauthenticated},
		{"Loading", true, false, rolesdomain.Capabilities{}, rolesdomain.RoleTagAdmin, DecisionLoading},
		{"MissingTag", true, true, rolesdomain.Capabilities{}, rolesdomain.RoleTagAdmin, DecisionUnauthorized},
		{"WrongTag", true, true, rolesdomain.Capabilities{IsDelivery: true}, rolesdomain.RoleTagAdmin, DecisionUnauthorized},
		{"HasTag", true, true, manager, rolesdomain.RoleTagAdmin, DecisionAuthorized},
		{"NoRoleRequired", true, true, rolesdomain.Capabilities{}, "", DecisionAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.hasIdentity, tt.resolved, tt.caps, tt.required)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestRequireRole_Unauthenticated verifies the redirect to the auth entry
// point, regardless of the required role.
func TestRequireRole_Unauthenticated(t *testing.T) {
	auth := &fakeAuthService{}
	resolver := &fakeResolver{caps: rolesdomain.Capabilities{IsManager: true}}
	app := setupGatedApp(auth, resolver, rolesdomain.RoleTagAdmin)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}

// TestRequireRole_Unauthorized verifies the silent redirect home when the
// required tag is absent.
func TestRequireRole_Unauthorized(t *testing.T) {
	auth := &fakeAuthService{identity: &authdomain.Identity{ID: "u-1", Email: "courier@example.com"}}
	resolver := &fakeResolver{caps: rolesdomain.Capabilities{IsDelivery: true}}
	app := setupGatedApp(auth, resolver, rolesdomain.RoleTagAdmin)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

// TestRequireRole_Authorized verifies that the protected handler runs.
func TestRequireRole_Authorized(t *testing.T) {
	auth := &fakeAuthService{identity: &authdomain.Identity{ID: "u-1", Email: "manager@example.com"}}
	resolver := &fakeResolver{caps: rolesdomain.Capabilities{IsManager: true}}
	app := setupGatedApp(auth, resolver, rolesdomain.RoleTagAdmin)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// TestRequireRole_RevokedToken verifies that an invalid token is treated as
// no identity.
func TestRequireRole_RevokedToken(t *testing.T) {
	auth := &fakeAuthService{identity: &authdomain.Identity{ID: "u-1", Email: "manager@example.com"}}
	resolver := &fakeResolver{caps: rolesdomain.Capabilities{IsManager: true}}
	app := setupGatedApp(auth, resolver, rolesdomain.RoleTagAdmin)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}
