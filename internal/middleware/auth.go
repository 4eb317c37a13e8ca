package middleware

import (
	"strings"

	"artisanconnect/internal/models"
	"artisanconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "identity"

// TokenValidator turns a bearer token into a caller identity.
type TokenValidator interface {
	ValidateToken(token string) (*services.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token provided",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := validator.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token",
				"error":   err.Error(),
			})
		}

		c.Locals(identityKey, *identity)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not listed. Use after AuthRequired.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := Identity(c)
		for _, r := range roles {
			if caller.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized",
		})
	}
}

// Identity returns the caller stored by AuthRequired, or a zero Identity.
func Identity(c *fiber.Ctx) services.Identity {
	id, _ := c.Locals(identityKey).(services.Identity)
	return id
}
