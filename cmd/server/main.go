package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"melodia-backend/internal/auth"
	"melodia-backend/internal/config"
	"melodia-backend/internal/engine"
	"melodia-backend/internal/report"
	"melodia-backend/internal/schema"
	"melodia-backend/internal/store"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, driver: %s, db: %s)", cfg.Server.Port, cfg.Database.Driver, cfg.Database.Name)

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// 3. Create missing tables and the initial operator
	migrator := store.NewMigrator(db)
	if err := migrator.EnsureSchema(ctx, schema.Builtin()); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	if err := migrator.SeedOperator(ctx, cfg.Auth.OperatorEmail, cfg.Auth.OperatorPassword); err != nil {
		log.Fatalf("Failed to seed operator: %v", err)
	}
	log.Println("Schema ready")

	// 4. Register the managed tables
	reg := schema.NewRegistry()
	reg.Load(schema.Builtin())

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 6. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 7. Auth routes (before middleware, no auth required)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret)
	authHandler := auth.NewHandler(db, issuer)
	auth.RegisterRoutes(app, authHandler)

	// 8. Auth middleware for all protected routes
	authMW := auth.Middleware(issuer)

	// 9. Report and ad hoc query routes (auth required)
	reportHandler := report.NewHandler(report.NewGenerator(db))
	report.RegisterRoutes(app, reportHandler, authMW)

	// 10. Generic table routes (auth required)
	engineHandler := engine.NewHandler(engine.New(db), reg)
	engine.RegisterRoutes(app, engineHandler, authMW)

	// 11. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	var appErr *engine.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(engine.ErrorResponse{Error: appErr})
	}

	log.Printf("ERROR: %v", err)
	return c.Status(code).JSON(engine.ErrorResponse{
		Error: &engine.AppError{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		},
	})
}
