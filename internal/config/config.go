// Package config provides application configuration loaded from an optional
// YAML file and environment variables. Environment variables win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	PDF      PDFConfig      `yaml:"pdf"`
	Log      LogConfig      `yaml:"log"`
	Mirror   MirrorConfig   `yaml:"mirror"`
	Locale   LocaleConfig   `yaml:"locale"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string `yaml:"port"`
	ReadTimeout   int    `yaml:"read_timeout"`  // seconds
	WriteTimeout  int    `yaml:"write_timeout"` // seconds
	IdleTimeout   int    `yaml:"idle_timeout"`  // seconds
	SessionSecret string `yaml:"session_secret"`
	MaxUploadMB   int    `yaml:"max_upload_mb"`
}

// DatabaseConfig holds the connection settings. Driver is "postgres" or
// "sqlite".
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	DBName     string `yaml:"dbname"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool   `yaml:"dev"`
	Migrations    bool   `yaml:"migrations"`
	SQLMigrations string `yaml:"sql_migrations"` // directory; empty means AutoMigrate
	Entity        uint   `yaml:"entity"`

	// initial administrator, created when the users table is empty
	AdminLogin    string `yaml:"admin_login"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
	AdminGroup    string `yaml:"admin_group"`
}

// StorageConfig locates the module data root.
type StorageConfig struct {
	DataRoot         string `yaml:"data_root"`
	ContainerRewrite bool   `yaml:"container_rewrite"`
	PublicURL        string `yaml:"public_url"`
}

// PDFConfig tunes the simplified ODT to PDF renderer.
type PDFConfig struct {
	Margin     float64 `yaml:"margin"` // mm
	FontFamily string  `yaml:"font_family"`
	FontSize   float64 `yaml:"font_size"` // pt
	LineHeight float64 `yaml:"line_height"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MirrorConfig enables copying generated archives to an S3 compatible
// bucket. Empty Endpoint disables it.
type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
}

// LocaleConfig sets defaults for documents.
type LocaleConfig struct {
	DefaultLang string `yaml:"default_lang"`
	Timezone    string `yaml:"timezone"`
}

// PostgresDSN returns the PostgreSQL connection string in key=value format, or the
// explicit DSN when one is configured.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as expected
// by golang-migrate.
func (d DatabaseConfig) URL() string {
	if strings.HasPrefix(d.DSN, "postgres://") || strings.HasPrefix(d.DSN, "postgresql://") {
		return d.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Defaults returns the configuration used for local development.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			ReadTimeout:   15,
			WriteTimeout:  60,
			IdleTimeout:   60,
			SessionSecret: "devsessionsecret",
			MaxUploadMB:   32,
		},
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       5432,
			User:       "multidoc",
			Password:   "multidoc123",
			DBName:     "multidoc",
			SSLMode:    "disable",
			SQLitePath: "multidoc.db",
		},
		App: AppConfig{
			Dev:        true,
			Entity:     1,
			AdminLogin: "admin",
			AdminEmail: "admin@example.com",
			AdminGroup: "Administrators",
		},
		Storage: StorageConfig{
			DataRoot:         filepath.Join("data", "multidoctemplate"),
			ContainerRewrite: true,
		},
		PDF: PDFConfig{
			Margin:     15,
			FontFamily: "Arial",
			FontSize:   12,
			LineHeight: 6,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Locale: LocaleConfig{
			DefaultLang: "fr",
			Timezone:    "Europe/Paris",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvInt("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.SessionSecret = getEnv("SESSION_SECRET", c.Server.SessionSecret)
	c.Server.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", c.Server.MaxUploadMB)

	c.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", c.Database.Driver))
	c.Database.DSN = getEnv("DATABASE_DSN", c.Database.DSN)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.SQLitePath = getEnv("SQLITE_PATH", c.Database.SQLitePath)

	c.App.Dev = getEnvBool("DEV", c.App.Dev)
	c.App.Migrations = getEnvBool("MIGRATIONS", c.App.Migrations)
	c.App.SQLMigrations = getEnv("SQL_MIGRATIONS", c.App.SQLMigrations)
	c.App.Entity = uint(getEnvInt("ENTITY", int(c.App.Entity)))
	c.App.AdminLogin = getEnv("ADMIN_LOGIN", c.App.AdminLogin)
	c.App.AdminEmail = getEnv("ADMIN_EMAIL", c.App.AdminEmail)
	c.App.AdminPassword = getEnv("ADMIN_PASSWORD", c.App.AdminPassword)
	c.App.AdminGroup = getEnv("ADMIN_GROUP", c.App.AdminGroup)

	c.Storage.DataRoot = getEnv("DATA_ROOT", c.Storage.DataRoot)
	c.Storage.ContainerRewrite = getEnvBool("CONTAINER_REWRITE", c.Storage.ContainerRewrite)
	c.Storage.PublicURL = getEnv("PUBLIC_URL", c.Storage.PublicURL)

	c.PDF.Margin = getEnvFloat("PDF_MARGIN", c.PDF.Margin)
	c.PDF.FontFamily = getEnv("PDF_FONT", c.PDF.FontFamily)
	c.PDF.FontSize = getEnvFloat("PDF_FONT_SIZE", c.PDF.FontSize)
	c.PDF.LineHeight = getEnvFloat("PDF_LINE_HEIGHT", c.PDF.LineHeight)

	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(getEnv("LOG_FORMAT", c.Log.Format))

	c.Mirror.Endpoint = getEnv("MINIO_ENDPOINT", c.Mirror.Endpoint)
	c.Mirror.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Mirror.AccessKey)
	c.Mirror.SecretKey = getEnv("MINIO_SECRET_KEY", c.Mirror.SecretKey)
	c.Mirror.Bucket = getEnv("MINIO_BUCKET", c.Mirror.Bucket)
	c.Mirror.UseSSL = getEnvBool("MINIO_USE_SSL", c.Mirror.UseSSL)
	c.Mirror.Region = getEnv("MINIO_REGION", c.Mirror.Region)

	c.Locale.DefaultLang = getEnv("DEFAULT_LANG", c.Locale.DefaultLang)
	c.Locale.Timezone = getEnv("TZ_LOCATION", c.Locale.Timezone)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
