package db

import (
	"fmt"
	"testing"

	"github.com/diewo77/go-multidoc/internal/config"
	"github.com/diewo77/go-multidoc/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestMigrateSQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := Connect(cfg.Database, false)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(db, cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"templates", "archives", "user_group_members", "company_categories"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	if _, err := Connect(config.DatabaseConfig{Driver: "oracle"}, false); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSeedProfilesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 2; i++ {
		if err := SeedProfiles(db); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	if count != 3 {
		t.Errorf("profiles = %d, want 3", count)
	}

	var editor models.Profile
	if err := db.Preload("Permissions").Where("name = ?", "editor").First(&editor).Error; err != nil {
		t.Fatalf("load editor: %v", err)
	}
	codes := map[string]bool{}
	for _, p := range editor.Permissions {
		codes[p.Code()] = true
	}
	if len(codes) != 3 || !codes["template:*"] || !codes["archive:*"] || !codes["thirdparty:*"] {
		t.Errorf("editor permissions = %v", codes)
	}
}

func TestSeedAdmin(t *testing.T) {
	db := setupTestDB(t)
	if err := SeedProfiles(db); err != nil {
		t.Fatalf("seed profiles: %v", err)
	}
	u, err := SeedAdmin(db, "admin", "admin@example.com", "secret", "Administrators")
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if u == nil || !u.Admin || u.ProfileID == nil {
		t.Fatalf("unexpected admin %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")) != nil {
		t.Error("password not hashed with bcrypt")
	}

	var loaded models.User
	db.Preload("Groups").First(&loaded, u.ID)
	if len(loaded.Groups) != 1 || loaded.Groups[0].Name != "Administrators" {
		t.Errorf("groups = %+v", loaded.Groups)
	}

	again, err := SeedAdmin(db, "other", "other@example.com", "x", "Administrators")
	if err != nil || again != nil {
		t.Errorf("second seed should be a no-op, got %v %v", again, err)
	}
}

func TestMaskDSN(t *testing.T) {
	tests := map[string]string{
		"host=db user=u password=s3cret dbname=x": "host=db user=u password=*** dbname=x",
		"postgres://u:s3cret@db:5432/x":           "postgres://u:***@db:5432/x",
		"file.db":                                 "file.db",
	}
	for in, want := range tests {
		if got := MaskDSN(in); got != want {
			t.Errorf("MaskDSN(%q) = %q, want %q", in, got, want)
		}
	}
}
