package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"celora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims *models.UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	m := NewAuthMiddleware(nil)
	app.Get("/cards", m.Handler, HasPermission(models.PermissionCardRead), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/admin", m.Handler, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", &models.UserClaims{UserID: 7, Role: "user"}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareAppliesRoleDefaultPermissions(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newAuthApp(t)

	// No explicit permission set on the token; the role defaults apply.
	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", &models.UserClaims{UserID: 7, Role: "user"}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Unknown role has no defaults and no permissions.
	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", &models.UserClaims{UserID: 7, Role: "service"}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Explicit permissions on the token win over the defaults.
	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", &models.UserClaims{
		UserID: 7, Role: "user", Permissions: []string{models.PermissionRiskRead},
	}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", &models.UserClaims{UserID: 1, Role: "admin"}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", &models.UserClaims{UserID: 7, Role: "user"}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
