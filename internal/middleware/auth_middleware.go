package middleware

import (
	"strings"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authenticated validates the bearer access token and stores the caller's
// identity on the request context.
func Authenticated(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return services.ErrUnauthorized
		}

		// Ensure it's a Bearer token
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return services.ErrUnauthorized
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			return services.ErrUnauthorized
		}

		c.Locals(identityKey, models.Identity{UserID: claims.UserID, Role: claims.Role})
		return c.Next()
	}
}

// CurrentIdentity returns the identity set by Authenticated.
func CurrentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	id, ok := c.Locals(identityKey).(models.Identity)
	return id, ok && id.UserID != ""
}
