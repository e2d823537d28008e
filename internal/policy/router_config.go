package policy

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/auth"
	"github.com/diewo77/go-multidoc/internal/config"
	"github.com/diewo77/go-multidoc/internal/handlers"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/pdfconv"
	"github.com/diewo77/go-multidoc/internal/services"
	"github.com/diewo77/go-multidoc/internal/storage"
)

// Modules guarded by the gate.
const (
	ModuleTemplate   = "template"
	ModuleArchive    = "archive"
	ModuleThirdparty = "thirdparty"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides authorization checks and middleware
	AuthGate *AuthGate
	Sessions *auth.Sessions

	AdminProfileHandler     *handlers.AdminProfileHandler
	AdminUserProfileHandler *handlers.AdminUserProfileHandler
	AuthHandler             *handlers.AuthHandler
	TemplateHandler         *handlers.TemplateHandler
	ArchiveHandler          *handlers.ArchiveHandler
	OrganizationHandler     *handlers.OrganizationHandler
	ThirdpartyHandler       *handlers.ThirdpartyHandler

	Templates *services.TemplateService
	Archives  *services.ArchiveService
	Entities  *services.EntityService
	Generator *services.GeneratorService
}

// NewRouterConfig wires the authorization gate, the services and the
// handlers. mirror may be nil.
func NewRouterConfig(db *gorm.DB, cfg *config.Config, mirror storage.Mirror) *RouterConfig {
	authGate := NewAuthGate(db, 5*time.Minute)

	// templates and archives are scoped to the owning user group
	scope := NewGroupScopePolicy(db)
	authGate.RegisterPolicy(ModuleTemplate, scope)
	authGate.RegisterPolicy(ModuleArchive, scope)

	store := storage.New(cfg.Storage.DataRoot)
	templates := services.NewTemplateService(db, store, mirror)
	archives := services.NewArchiveService(db, store, mirror)
	entities := services.NewEntityService(db)
	generator := services.NewGeneratorService(archives, store, services.GeneratorOptions{
		ContainerRewrite: cfg.Storage.ContainerRewrite,
		PDF: pdfconv.Options{
			Margin:     cfg.PDF.Margin,
			FontFamily: cfg.PDF.FontFamily,
			FontSize:   cfg.PDF.FontSize,
			LineHeight: cfg.PDF.LineHeight,
		},
	})

	// sessions of deleted users are rejected
	sessions := auth.NewSessions(cfg.Server.SessionSecret, 0, func(ctx context.Context, uid uint) bool {
		var count int64
		db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	loc, err := time.LoadLocation(cfg.Locale.Timezone)
	if err != nil {
		slog.Warn("unknown time zone, using local time", "timezone", cfg.Locale.Timezone, "error", err)
		loc = time.Local
	}

	return &RouterConfig{
		AuthGate:                authGate,
		Sessions:                sessions,
		AdminProfileHandler:     handlers.NewAdminProfileHandler(db, authGate.CacheResolver),
		AdminUserProfileHandler: handlers.NewAdminUserProfileHandler(db, authGate.CacheResolver),
		AuthHandler:             handlers.NewAuthHandler(db, sessions),
		TemplateHandler:         handlers.NewTemplateHandler(templates, entities, authGate, cfg.Server.MaxUploadMB, cfg.App.Entity),
		ArchiveHandler: handlers.NewArchiveHandler(archives, templates, entities, generator, authGate, handlers.ArchiveOptions{
			MaxUploadMB:    cfg.Server.MaxUploadMB,
			Entity:         cfg.App.Entity,
			PublicURL:      cfg.Storage.PublicURL,
			Location:       loc,
			ServerLocation: time.Local,
		}),
		OrganizationHandler: handlers.NewOrganizationHandler(db, cfg.App.Entity),
		ThirdpartyHandler:   handlers.NewThirdpartyHandler(db, cfg.App.Entity),
		Templates:           templates,
		Archives:            archives,
		Entities:            entities,
		Generator:           generator,
	}
}
