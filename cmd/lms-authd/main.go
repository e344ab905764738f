package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/campuskit/lms-auth"
	"github.com/campuskit/lms-auth/config"
)

func main() {
	configPath := flag.String("config", "lms-auth.toml", "path to the TOML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := *configPath
	if path == "lms-auth.toml" {
		// the default file is optional; environment variables carry the
		// configuration when it is absent
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatalf("repositories: %v", err)
	}

	if err := repo.Users().Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if cfg.Admin.Email != "" {
		if err := auth.EnsureAdmin(ctx, repo.Users(), cfg.Admin.Email, cfg.Admin.Password, nil); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}

	auther := auth.NewAuthenticator(repo.Users(), cfg)
	controller := auth.NewAuthController(auther)

	app := fiber.New(fiber.Config{
		AppName:      "lms-authd",
		ErrorHandler: auth.ErrorHandler(nil),
	})

	app.Use(auth.NewAuthGate(cfg, auther.TokenService(), nil))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.RegisterAuthRoutes(app, controller)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
