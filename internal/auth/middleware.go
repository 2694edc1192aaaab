package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"melodia-backend/internal/engine"
)

const operatorKey = "operator_id"

// Middleware returns a Fiber middleware that validates the bearer token and
// stores the operator ID on the request.
func Middleware(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return engine.UnauthorizedError("Missing auth token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return engine.UnauthorizedError("Invalid auth header format")
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			return engine.UnauthorizedError("Invalid or expired token")
		}

		c.Locals(operatorKey, claims.Subject)
		return c.Next()
	}
}

// OperatorID extracts the authenticated operator's ID from a Fiber context.
func OperatorID(c *fiber.Ctx) string {
	id, _ := c.Locals(operatorKey).(string)
	return id
}
