package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/handlers"
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/routes"
	"github.com/forge-app/forge-api/internal/services"
)

type ServeCmd struct{}

func (s *ServeCmd) Run(appCtx *Context) error {
	cfg := appCtx.Config

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Log.Info().Msg("Database initialized successfully")

	middleware.SetSecret(cfg.JWTSecret)
	handlers.UploadDir = cfg.UploadDir
	services.InitPush(ctx, database.DB, cfg.FCMServiceAccount)
	services.StartKeepAlive(ctx, cfg.KeepAliveURL, cfg.KeepAliveInterval)

	app := fiber.New(fiber.Config{
		AppName:      "forge",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    6 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.Setup(app)

	go func() {
		<-ctx.Done()
		logger.Log.Info().Msg("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Warn().Err(err).Msg("shutdown did not finish cleanly")
		}
	}()

	addr := ":" + strings.TrimPrefix(cfg.Port, ":")
	logger.Log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("Server starting")
	return app.Listen(addr)
}

type MigrateCmd struct{}

func (m *MigrateCmd) Run(appCtx *Context) error {
	if err := database.Connect(appCtx.Config); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Log.Info().Msg("Migrations applied")
	return nil
}

type SweepPrayersCmd struct {
	Date string `help:"Day to sweep (YYYY-MM-DD). Defaults to yesterday in UTC."`
}

func (s *SweepPrayersCmd) Run(appCtx *Context) error {
	date := s.Date
	if date == "" {
		date = services.DayKey(time.Now().UTC().AddDate(0, 0, -1))
	}
	d, err := services.ParseDay(date)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	if !d.Before(services.ClientDay(time.Now(), 0)) {
		return fmt.Errorf("--date %s has not ended yet", date)
	}

	if err := database.Connect(appCtx.Config); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	var users []models.User
	if err := database.DB.Select("id").Find(&users).Error; err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	total := 0
	ctx := context.Background()
	for _, u := range users {
		missed, err := services.SweepMissedPrayers(ctx, database.DB, u.ID, date)
		if err != nil {
			logger.Log.Warn().Err(err).Str("user", u.ID.String()).Msg("prayer sweep failed")
			continue
		}
		total += missed
	}

	logger.Log.Info().Str("date", date).Int("users", len(users)).Int("missed", total).Msg("Prayer sweep finished")
	return nil
}

type VersionCmd struct{}

func (v *VersionCmd) Run(appCtx *Context) error {
	fmt.Printf("forge %s (commit: %s)\n", version, commit)
	return nil
}
