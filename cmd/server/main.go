package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/internal/config"
	"github.com/diewo77/go-multidoc/internal/db"
	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/policy"
	"github.com/diewo77/go-multidoc/internal/storage"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	dbConn, err := db.Connect(cfg.Database, cfg.App.Dev && cfg.Log.Level == "debug")
	if err != nil {
		fatal("failed to connect to database", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn, cfg); err != nil {
			fatal("migration failed", err)
		}
		slog.Info("migrations completed successfully")
		return
	}

	if *seedOnlyFlag {
		if err := seed(dbConn, cfg); err != nil {
			fatal("seeding failed", err)
		}
		slog.Info("seeding completed successfully")
		return
	}

	// Run migrations on startup if enabled
	if cfg.App.Migrations {
		if err := db.Migrate(dbConn, cfg); err != nil {
			fatal("migration failed", err)
		}
		slog.Info("migrations completed")
	}
	if err := seed(dbConn, cfg); err != nil {
		fatal("seeding failed", err)
	}

	mirror, err := newMirror(cfg.Mirror)
	if err != nil {
		fatal("object storage unavailable", err)
	}
	if err := storage.MkdirAll(cfg.Storage.DataRoot); err != nil {
		fatal("create data root", err)
	}

	routerCfg := policy.NewRouterConfig(dbConn, cfg, mirror)
	appHandler := NewApp(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "dev", cfg.App.Dev, "data_root", cfg.Storage.DataRoot)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("server error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// seed creates the permissions, the system profiles and, on an empty
// database with ADMIN_PASSWORD set, the first administrator.
func seed(dbConn *gorm.DB, cfg *config.Config) error {
	if err := db.SeedProfiles(dbConn); err != nil {
		return err
	}
	if cfg.App.AdminPassword == "" {
		return nil
	}
	u, err := db.SeedAdmin(dbConn, cfg.App.AdminLogin, cfg.App.AdminEmail, cfg.App.AdminPassword, cfg.App.AdminGroup)
	if err != nil {
		return err
	}
	if u != nil {
		slog.Info("administrator created", "login", u.Login, "group", cfg.App.AdminGroup)
	}
	return nil
}

func newMirror(cfg config.MirrorConfig) (storage.Mirror, error) {
	m, err := storage.NewMirror(cfg)
	if err != nil {
		return nil, err
	}
	if mm, ok := m.(*storage.MinioMirror); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mm.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		slog.Info("archive mirror enabled", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	}
	return m, nil
}
