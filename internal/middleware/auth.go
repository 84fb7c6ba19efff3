package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/types"
)

const identityKey = "identity"

// Authenticate requires a valid bearer token issued at login and stores the
// caller's identity in the request context.
func Authenticate(tokens *services.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return types.Unauthorized("Bearer token required")
		}

		identity, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *fiber.Ctx) (services.Identity, bool) {
	identity, ok := c.Locals(identityKey).(services.Identity)
	return identity, ok
}
