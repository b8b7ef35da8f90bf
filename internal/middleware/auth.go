package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// AdminAuth guards admin routes with a static bearer token. An empty token
// rejects every request, so admin routes stay closed until ADMIN_TOKEN is set.
func AdminAuth(token string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if token == "" {
			return unauthorized(c, "admin access is not configured")
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing Authorization header")
		}

		got, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return unauthorized(c, "invalid Authorization header format, expected 'Bearer <token>'")
		}

		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return unauthorized(c, "invalid token")
		}
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
