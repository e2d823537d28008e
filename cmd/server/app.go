package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/go-multidoc/auth"
	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/policy"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// session user first, then language and log context
	handler := a.routerCfg.Sessions.Middleware(withPreferences(withLogging(a.mux)))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.Handle("GET /me", a.requireAuth(http.HandlerFunc(ah.Me)))

	// ─────────────────────────────────────────────────────────────────────────
	// Templates
	// ─────────────────────────────────────────────────────────────────────────
	th := a.routerCfg.TemplateHandler
	tpl := policy.ModuleTemplate

	a.mux.Handle("GET /templates", a.guard(tpl, gate.ActionList, th.List))
	a.mux.Handle("GET /templates/mine", a.guard(tpl, gate.ActionList, th.Mine))
	a.mux.Handle("POST /templates", a.guard(tpl, gate.ActionCreate, th.Upload))
	a.mux.Handle("GET /templates/{id}", a.guard(tpl, gate.ActionView, th.Get))
	a.mux.Handle("GET /templates/{id}/download", a.guard(tpl, gate.ActionDownload, th.Download))
	a.mux.Handle("POST /templates/{id}/delete", a.guard(tpl, gate.ActionDelete, th.Delete))

	// ─────────────────────────────────────────────────────────────────────────
	// Archives of a third party or contact
	// ─────────────────────────────────────────────────────────────────────────
	arh := a.routerCfg.ArchiveHandler
	arc := policy.ModuleArchive

	a.mux.Handle("GET /archives/{kind}/{id}", a.guard(arc, gate.ActionList, arh.List))
	a.mux.Handle("POST /archives/{kind}/{id}/generate", a.guard(arc, gate.ActionCreate, arh.Generate))
	a.mux.Handle("POST /archives/{kind}/{id}/upload", a.guard(arc, gate.ActionCreate, arh.Upload))
	a.mux.Handle("GET /archives/file/{id}/download", a.guard(arc, gate.ActionDownload, arh.Download))
	a.mux.Handle("POST /archives/file/{id}/delete", a.guard(arc, gate.ActionDelete, arh.Delete))

	// ─────────────────────────────────────────────────────────────────────────
	// Third parties and contacts
	// ─────────────────────────────────────────────────────────────────────────
	tph := a.routerCfg.ThirdpartyHandler
	tp := policy.ModuleThirdparty

	a.mux.Handle("GET /thirdparties", a.guard(tp, gate.ActionList, tph.List))
	a.mux.Handle("POST /thirdparties", a.guard(tp, gate.ActionCreate, tph.Create))
	a.mux.Handle("GET /thirdparties/{id}", a.guard(tp, gate.ActionView, tph.View))
	a.mux.Handle("POST /contacts", a.guard(tp, gate.ActionCreate, tph.CreateContact))
	a.mux.Handle("GET /contacts/{id}", a.guard(tp, gate.ActionView, tph.ViewContact))

	// Organization settings
	oh := a.routerCfg.OrganizationHandler
	a.mux.Handle("GET /settings/organization", a.requireAuth(http.HandlerFunc(oh.Get)))
	a.mux.Handle("POST /settings/organization", a.requireAdmin(http.HandlerFunc(oh.Update)))

	// ─────────────────────────────────────────────────────────────────────────
	// Admin routes (require admin profile)
	// ─────────────────────────────────────────────────────────────────────────
	aph := a.routerCfg.AdminProfileHandler
	auph := a.routerCfg.AdminUserProfileHandler

	a.mux.Handle("GET /admin/profiles", a.requireAdmin(http.HandlerFunc(aph.List)))
	a.mux.Handle("POST /admin/profiles", a.requireAdmin(http.HandlerFunc(aph.Create)))
	a.mux.Handle("POST /admin/profiles/{id}", a.requireAdmin(http.HandlerFunc(aph.Update)))
	a.mux.Handle("POST /admin/profiles/{id}/delete", a.requireAdmin(http.HandlerFunc(aph.Delete)))
	a.mux.Handle("POST /admin/profiles/{id}/permissions", a.requireAdmin(http.HandlerFunc(aph.SavePermissions)))
	a.mux.Handle("GET /admin/permissions", a.requireAdmin(http.HandlerFunc(aph.ListPermissions)))

	a.mux.Handle("GET /admin/users", a.requireAdmin(http.HandlerFunc(auph.List)))
	a.mux.Handle("POST /admin/users/assign-profile", a.requireAdmin(http.HandlerFunc(auph.AssignProfile)))
	a.mux.Handle("POST /admin/users/assign-groups", a.requireAdmin(http.HandlerFunc(auph.AssignGroups)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth wraps a handler to require a verified session.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return a.routerCfg.Sessions.RequireAuth(next)
}

// requireAdmin wraps a handler to require the "*:*" permission.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.requireAuth(a.routerCfg.AuthGate.RequireAdmin()(next))
}

// guard requires a session and a profile permission on module.
func (a *App) guard(module string, action gate.Action, h http.HandlerFunc) http.Handler {
	return a.requireAuth(a.routerCfg.AuthGate.RequirePermission(module, action)(h))
}

// withPreferences injects the language (cookie, query or Accept-Language),
// a request id and the session user into the context.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    i18n.Normalize(lang),
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		ctx = i18n.WithLang(ctx, lang)

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx = logger.WithRequestID(ctx, reqID)
		if uid, ok := auth.UserIDFromContext(ctx); ok {
			ctx = logger.WithUserID(ctx, uid)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", w.Header().Get("X-Request-ID"),
		)
	})
}
