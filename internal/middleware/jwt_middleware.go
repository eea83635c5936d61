package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey = "user_id"
	tokenKey  = "user"

	errMissingToken = "Missing or malformed JWT"
)

// AuthRequired verifies the bearer access token and stores its subject
// under "user_id". A missing or malformed header is 401; a token that fails
// verification is 403.
func AuthRequired(accessSecret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(accessSecret),
		SigningMethod:  "HS256",
		ContextKey:     tokenKey,
		ErrorHandler:   authError,
		SuccessHandler: storeSubject,
	})
}

func authError(c *fiber.Ctx, err error) error {
	if err.Error() == errMissingToken {
		return deny(c, fiber.StatusUnauthorized, "missing or malformed authorization header")
	}
	log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
	return deny(c, fiber.StatusForbidden, "invalid or expired token")
}

func storeSubject(c *fiber.Ctx) error {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok {
		return deny(c, fiber.StatusForbidden, "invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return deny(c, fiber.StatusForbidden, "invalid or expired token")
	}
	sub, _ := claims["sub"].(string)
	typ, _ := claims["typ"].(string)
	if sub == "" || typ != "access" {
		return deny(c, fiber.StatusForbidden, "invalid or expired token")
	}

	c.Locals(userIDKey, sub)
	return c.Next()
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
	})
}

// UserID returns the authenticated user's id, or "" outside AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
