package middleware

import (
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminOnly ensures that only users with the admin role reach the handler.
// It must run after Authenticated.
func AdminOnly(c *fiber.Ctx) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return services.ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return services.ErrForbidden
	}
	return c.Next()
}
