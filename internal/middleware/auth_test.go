package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"artisanconnect/internal/middleware"
	"artisanconnect/internal/models"
	"artisanconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staticValidator accepts exactly one token.
type staticValidator struct {
	token    string
	identity services.Identity
}

func (v staticValidator) ValidateToken(token string) (*services.Identity, error) {
	if token != v.token {
		return nil, errors.New("token is expired")
	}
	id := v.identity
	return &id, nil
}

func newApp(identity services.Identity, roles ...models.Role) *fiber.App {
	app := fiber.New()
	auth := middleware.AuthRequired(staticValidator{token: "good", identity: identity}, zap.NewNop())
	handlers := []fiber.Handler{auth}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		caller := middleware.Identity(c)
		return c.SendString(caller.UserID + ":" + caller.Username)
	})
	app.Get("/protected", handlers...)
	return app
}

func TestAuthRequired(t *testing.T) {
	app := newApp(services.Identity{UserID: "u1", Username: "priya", Role: models.RoleBuyer})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set("Authorization", "Bearer good")
		return r
	}

	buyerApp := newApp(services.Identity{UserID: "u1", Username: "priya", Role: models.RoleBuyer}, models.RoleSeller)
	resp, err := buyerApp.Test(req(), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	sellerApp := newApp(services.Identity{UserID: "u2", Username: "ravi", Role: models.RoleSeller}, models.RoleSeller, models.RoleSuperadmin)
	resp, err = sellerApp.Test(req(), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
