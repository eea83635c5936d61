package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test_access_secret"

func signed(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func setupApp() *fiber.App {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger())
	app.Get("/me", AuthRequired(secret), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	valid := signed(t, secret, jwt.MapClaims{
		"sub": "user-1", "typ": "access", "exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, fiber.StatusUnauthorized},
		{"valid token", "Bearer " + valid, fiber.StatusOK},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusForbidden},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.MapClaims{
			"sub": "user-1", "typ": "access", "exp": time.Now().Add(time.Hour).Unix(),
		}), fiber.StatusForbidden},
		{"expired", "Bearer " + signed(t, secret, jwt.MapClaims{
			"sub": "user-1", "typ": "access", "exp": time.Now().Add(-time.Hour).Unix(),
		}), fiber.StatusForbidden},
		{"refresh token", "Bearer " + signed(t, secret, jwt.MapClaims{
			"sub": "user-1", "typ": "refresh", "exp": time.Now().Add(time.Hour).Unix(),
		}), fiber.StatusForbidden},
		{"no subject", "Bearer " + signed(t, secret, jwt.MapClaims{
			"typ": "access", "exp": time.Now().Add(time.Hour).Unix(),
		}), fiber.StatusForbidden},
	}

	app := setupApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user-1", string(body))
			}
		})
	}
}

func TestRequestLogger_PassesThroughErrors(t *testing.T) {
	app := setupApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
