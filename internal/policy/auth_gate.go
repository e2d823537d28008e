package policy

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/auth"
	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
)

// AuthGate holds the configured Gate with caching.
// Use this as a central authorization point in your application.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate creates a fully configured authorization gate.
// - db: GORM database connection for profile lookups
// - cacheTTL: how long to cache user profiles (e.g., 5*time.Minute)
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cachedResolver := gate.NewCachedResolver[uint](NewDBProfileResolver(db), cacheTTL)
	return &AuthGate{
		Gate:          gate.New[uint](cachedResolver),
		CacheResolver: cachedResolver,
	}
}

// RegisterPolicy adds a scope policy for a module.
func (ag *AuthGate) RegisterPolicy(module string, p gate.ScopePolicy[uint]) {
	ag.Gate.Register(module, p)
}

// Authorize checks if the current user can perform an action on a resource.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, module string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, module, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, module string, resource any) bool {
	return ag.Authorize(ctx, action, module, resource) == nil
}

// CanProfile checks only profile permissions (no scope check).
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, module string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, module)
}

// InvalidateUser clears the cache for a specific user.
// Call this when a user's profile is changed.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// InvalidateAll clears the entire profile cache.
func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

// RequirePermission returns middleware that checks profile permission.
func (ag *AuthGate) RequirePermission(module string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ag.CanProfile(r.Context(), action, module) {
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only allows profiles holding "*:*".
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				lang := i18n.LangFromContext(r.Context())
				httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "unauthorized"), nil)
				return
			}
			profile, err := ag.CacheResolver.Resolve(r.Context(), userID)
			if err != nil || profile == nil || !profile.HasPermission(gate.PermissionSuperAdmin) {
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	lang := i18n.LangFromContext(r.Context())
	httpx.JSONError(w, http.StatusForbidden, i18n.T(lang, "forbidden"), nil)
}
