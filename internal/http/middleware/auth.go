package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lisadocs/internal/model"
)

// PrincipalLocalKey is the key used to store the authenticated principal in
// Fiber's context locals.
const PrincipalLocalKey = "principal"

// TokenVerifier validates a bearer token and returns the principal it names.
type TokenVerifier interface {
	Verify(tokenString string) (*model.Principal, error)
}

// Auth enforces bearer authentication on every request it wraps.
//
// Behavior:
// - Reads the Authorization header and requires the "Bearer <token>" form.
// - Verifies the token and stores the principal under PrincipalLocalKey.
// - Responds 401 with the standard error envelope on any failure.
func Auth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return unauthorized(c)
		}

		p, err := verifier.Verify(strings.TrimPrefix(header, prefix))
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(PrincipalLocalKey, *p)
		return c.Next()
	}
}

// PrincipalFromCtx extracts the principal stored by Auth. The second return
// is false on routes that never passed through the middleware.
func PrincipalFromCtx(c *fiber.Ctx) (model.Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(model.Principal)
	return p, ok
}

func unauthorized(c *fiber.Ctx) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "missing or invalid credentials",
		},
	})
}
