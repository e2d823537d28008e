// Package db opens the database, applies the schema and seeds the
// authorization profiles.
package db

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/diewo77/go-multidoc/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

var passwordRe = regexp.MustCompile(`(password=)([^\s]+)|(://[^:/@]+:)([^@]+)(@)`)

// MaskDSN hides the password of a key=value or URL style DSN.
func MaskDSN(dsn string) string {
	return passwordRe.ReplaceAllString(dsn, "${1}${3}***${5}")
}

// Connect opens the database configured in cfg. PostgreSQL connections are
// retried a few times to let the server start.
func Connect(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		slog.Info("database connected", "driver", "sqlite", "path", cfg.SQLitePath)
		return db, nil
	case "postgres", "":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	dsn := cfg.PostgresDSN()
	var db *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		slog.Warn("database connection failed, retrying", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	slog.Info("database connected", "driver", "postgres", "dsn", MaskDSN(dsn))
	return db, nil
}
