package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPermissions creates the permissions known to the application.
func SeedPermissions(db *gorm.DB) error {
	permissions := []struct {
		Module      string
		Action      string
		Description string
	}{
		// Superadmin wildcard
		{"*", "*", "Full system access"},
		// Templates
		{"template", "*", "All template actions"},
		{"template", "list", "List templates"},
		{"template", "view", "View template details"},
		{"template", "create", "Upload templates"},
		{"template", "delete", "Delete templates"},
		{"template", "download", "Download template files"},
		// Generated and uploaded documents
		{"archive", "*", "All archive actions"},
		{"archive", "list", "List archives of a third party or contact"},
		{"archive", "view", "View archive details"},
		{"archive", "create", "Generate or upload archives"},
		{"archive", "delete", "Delete archives"},
		{"archive", "download", "Download archive files"},
		// Third parties and contacts
		{"thirdparty", "*", "All third party actions"},
		{"thirdparty", "list", "List third parties"},
		{"thirdparty", "view", "View third parties and contacts"},
		{"thirdparty", "create", "Create third parties and contacts"},
		// Profile management (admin only)
		{"profile", "*", "All profile management"},
		{"profile", "list", "List profiles"},
	}

	for _, p := range permissions {
		perm := models.Permission{Module: p.Module, Action: p.Action, Description: p.Description}
		if err := db.Where("module = ? AND action = ?", p.Module, p.Action).
			FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("seed permission %s:%s: %w", p.Module, p.Action, err)
		}
	}
	return nil
}

// SeedProfiles creates the default system profiles with their permissions.
func SeedProfiles(db *gorm.DB) error {
	if err := SeedPermissions(db); err != nil {
		return err
	}

	profiles := []struct {
		Name        string
		Description string
		Permissions []string
	}{
		{
			Name:        "admin",
			Description: "Full system administrator with all permissions",
			Permissions: []string{"*:*"},
		},
		{
			Name:        "editor",
			Description: "Manage templates and generate documents",
			Permissions: []string{"template:*", "archive:*", "thirdparty:*"},
		},
		{
			Name:        "viewer",
			Description: "Read and download documents",
			Permissions: []string{
				"template:list",
				"template:view",
				"archive:list",
				"archive:view",
				"archive:download",
				"thirdparty:list",
				"thirdparty:view",
			},
		},
	}

	for _, p := range profiles {
		var profile models.Profile
		err := db.Where("name = ?", p.Name).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.Profile{Name: p.Name, Description: p.Description, IsSystem: true}
			if err := db.Create(&profile).Error; err != nil {
				return err
			}
		}

		var perms []models.Permission
		for _, code := range p.Permissions {
			module, action := gate.Permission(code).Parse()
			var perm models.Permission
			if err := db.Where("module = ? AND action = ?", module, string(action)).
				First(&perm).Error; err == nil {
				perms = append(perms, perm)
			}
		}
		if err := db.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the initial administrator when no user exists yet.
// The admin belongs to the given group, created if missing.
func SeedAdmin(db *gorm.DB, login, email, password, groupName string) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	var profile models.Profile
	if err := db.Where("name = ?", "admin").First(&profile).Error; err != nil {
		return nil, fmt.Errorf("admin profile missing, seed profiles first: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	group := models.UserGroup{Name: groupName}
	if err := db.Where("name = ?", groupName).FirstOrCreate(&group).Error; err != nil {
		return nil, err
	}
	user := models.User{
		Login:     login,
		Email:     email,
		Password:  string(hash),
		Admin:     true,
		ProfileID: &profile.ID,
		Groups:    []models.UserGroup{group},
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
