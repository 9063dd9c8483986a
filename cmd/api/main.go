package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lisadocs/docs"
	"lisadocs/internal/activity"
	"lisadocs/internal/auth"
	"lisadocs/internal/authz"
	"lisadocs/internal/config"
	"lisadocs/internal/database"
	"lisadocs/internal/database/migration"
	"lisadocs/internal/facet"
	handlers "lisadocs/internal/http/handler"
	"lisadocs/internal/http/middleware"
	"lisadocs/internal/lifecycle"
	"lisadocs/internal/otel"
	"lisadocs/internal/repository/postgres"
	"lisadocs/internal/service"
	"lisadocs/internal/storage"
	"lisadocs/internal/visibility"
)

// @title LisaDocs API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	// Tracing first so every later component picks up the global provider
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// PostgreSQL connection (pgx stdlib driver wrapped with otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// S3-compatible object storage (MinIO)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	docRepo := postgres.NewDocumentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	actRepo := postgres.NewActivityPostgres(db)

	// Authorization and lifecycle policy
	resolver := authz.NewResolver(userRepo)
	engine := lifecycle.NewEngine(resolver, lifecycle.Policy{
		AllowArchivedRestore: cfg.AllowArchivedRestore,
	})
	visBuilder := visibility.NewBuilder(resolver)

	// Async audit trail; drained on shutdown
	recorder := activity.NewRecorder(actRepo, cfg.ActivityQueueSize)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLSec)*time.Second)
	if err != nil {
		log.Fatalf("failed to initialize token manager: %v", err)
	}

	// Services
	docSvc := service.NewDocumentService(
		docRepo, actRepo, objStore,
		resolver, engine, visBuilder, recorder,
		facet.DefaultSchema(),
		time.Duration(cfg.PresignTTLSec)*time.Second,
	)
	userSvc := service.NewUserService(userRepo)
	statsSvc := service.NewStatsService(docRepo, userRepo, resolver)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: request IDs, JSON request logs, traces, metrics
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Documents: docSvc,
		Users:     userSvc,
		Stats:     statsSvc,
		Login:     handlers.NewLoginHandler(userRepo, tokens, cfg.Auth.DemoPassword),
		Principal: middleware.Auth(tokens),
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Serve until interrupted, then drain in-flight work
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case <-sigCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		log.Printf("activity recorder shutdown: %v", err)
	}
}
