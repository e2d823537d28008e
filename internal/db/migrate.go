package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/diewo77/go-multidoc/internal/config"
	"github.com/diewo77/go-multidoc/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Models lists every table of the application in dependency order.
func Models() []any {
	return []any{
		&models.Permission{},
		&models.Profile{},
		&models.UserGroup{},
		&models.User{},
		&models.Organization{},
		&models.Category{},
		&models.Company{},
		&models.Contact{},
		&models.Template{},
		&models.Archive{},
	}
}

// Migrate applies the schema. With a PostgreSQL driver and a configured
// SQL migrations directory it runs golang-migrate, otherwise AutoMigrate.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if cfg.Database.Driver != "sqlite" && cfg.App.SQLMigrations != "" {
		slog.Info("running sql migrations", "dir", cfg.App.SQLMigrations)
		if err := runSQLMigrations(cfg.App.SQLMigrations, cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(db); err != nil {
		return err
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"users", "templates", "archives"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or updates every table from the models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// runSQLMigrations executes migrations in dir using golang-migrate file source.
func runSQLMigrations(dir, databaseURL string) error {
	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
