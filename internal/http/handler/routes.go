package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"lisadocs/internal/http/middleware"
	"lisadocs/internal/model"
	"lisadocs/internal/service"
)

// Deps bundles what the routes need. Handlers stay thin; every decision
// beyond parsing and translation lives in the services.
type Deps struct {
	DB        *sql.DB
	Documents service.DocumentService
	Users     service.UserService
	Stats     service.StatsService

	// Login issues tokens for the shared-secret demo flow; nil disables
	// POST /auth/login.
	Login *LoginHandler

	// Principal is the bearer-auth middleware guarding every document and
	// user route.
	Principal fiber.Handler
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := deps.DB.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	if deps.Login != nil {
		app.Post("/auth/login", deps.Login.Handle)
	}

	authed := app.Group("/", deps.Principal)

	docs := newDocumentHandler(deps.Documents)
	authed.Post("/documents", docs.upload)
	authed.Get("/documents", docs.list)
	authed.Post("/documents/archive", docs.bulkArchive)
	authed.Get("/documents/:id", docs.get)
	authed.Get("/documents/:id/download", docs.download)
	authed.Get("/documents/:id/activity", docs.listActivity)
	authed.Patch("/documents/:id", docs.updateMetadata)
	authed.Put("/documents/:id/status", docs.changeStatus)
	authed.Delete("/documents/:id", docs.delete)

	users := newUserHandler(deps.Users)
	authed.Post("/users", users.create)
	authed.Get("/users", users.list)
	authed.Delete("/users/:id", users.deactivate)

	authed.Get("/dashboard/stats", func(c *fiber.Ctx) error {
		p, ok := principalFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
		}
		stats, err := deps.Stats.Dashboard(c.UserContext(), p)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(stats)
	})
}

func principalFromCtx(c *fiber.Ctx) (model.Principal, bool) {
	return middleware.PrincipalFromCtx(c)
}
