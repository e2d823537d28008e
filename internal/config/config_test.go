package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Driver != "postgres" {
		t.Errorf("unexpected defaults: %+v", cfg.Server)
	}
	if !cfg.Storage.ContainerRewrite {
		t.Error("container rewrite should be on by default")
	}
	if cfg.PDF.Margin != 15 {
		t.Errorf("pdf margin = %v, want 15", cfg.PDF.Margin)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := []byte(`
server:
  port: "9000"
database:
  driver: sqlite
  sqlite_path: /tmp/test.db
storage:
  data_root: /srv/multidoc
log:
  level: debug
`)
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATA_ROOT", "/override")
	t.Setenv("CONTAINER_REWRITE", "no")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q, want file value", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/test.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Storage.DataRoot != "/override" {
		t.Errorf("data root = %q, env must win", cfg.Storage.DataRoot)
	}
	if cfg.Storage.ContainerRewrite {
		t.Error("CONTAINER_REWRITE=no should disable rewriting")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Server.ReadTimeout != 15 {
		t.Errorf("unset keys keep defaults, got %d", cfg.Server.ReadTimeout)
	}
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDatabaseConfig_Strings(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	if got := d.PostgresDSN(); got != "host=db port=5432 user=u password=p dbname=n sslmode=disable" {
		t.Errorf("PostgresDSN() = %q", got)
	}
	if got := d.URL(); got != "postgres://u:p@db:5432/n?sslmode=disable" {
		t.Errorf("URL() = %q", got)
	}
	d.DSN = "postgres://x@y/z"
	if d.URL() != d.DSN || d.PostgresDSN() != d.DSN {
		t.Error("explicit DSN should be used as is")
	}
}
