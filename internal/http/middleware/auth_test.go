package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"lisadocs/internal/model"
)

type stubVerifier struct {
	principal *model.Principal
	err       error
}

func (s *stubVerifier) Verify(string) (*model.Principal, error) {
	return s.principal, s.err
}

func TestAuth(t *testing.T) {
	principal := model.Principal{ID: "u-1", Role: model.RoleSecretarioCAM, Workspace: model.WorkspaceCAM}

	newApp := func(v TokenVerifier) *fiber.App {
		app := fiber.New()
		app.Use(RequestID())
		app.Use(Auth(v))
		app.Get("/test", func(c *fiber.Ctx) error {
			p, ok := PrincipalFromCtx(c)
			if !ok {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			return c.SendString(p.ID)
		})
		return app
	}

	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		app := newApp(&stubVerifier{principal: &principal})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		app := newApp(&stubVerifier{principal: &principal})

		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		app := newApp(&stubVerifier{principal: &principal})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("verifier failure rejected", func(t *testing.T) {
		app := newApp(&stubVerifier{err: errors.New("expired")})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
