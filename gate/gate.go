// Package gate answers capability checks keyed by (module, action) pairs.
//
// A Gate first asks the user's profile whether it grants "module:action".
// When the caller also passes the concrete record being acted on, an
// optional per-module ScopePolicy decides whether that user may touch that
// record (for example, a template owned by a group the user is not part of).
//
// The package has no dependency on the application's models; U is whatever
// identifies a user (a uint id in the server).
package gate

import "context"

// ScopePolicy restricts access to individual records of a module.
type ScopePolicy[U any] interface {
	// Can reports whether user may perform action on resource.
	// resource is never nil when the gate calls it.
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// Gate combines profile permissions with per-module scope policies.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	scopes   map[string]ScopePolicy[U]
}

// New creates a gate backed by resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver, scopes: make(map[string]ScopePolicy[U])}
}

// Register installs the scope policy for module, replacing any previous one.
func (g *Gate[U]) Register(module string, p ScopePolicy[U]) {
	g.scopes[module] = p
}

// Authorize returns nil when user may perform action on module, and on
// resource when it is non-nil.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, module string, resource any) error {
	if err := g.checkProfile(ctx, user, action, module); err != nil {
		return err
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.scopes[module]; ok && !p.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

// Can is Authorize as a bool.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, module string, resource any) bool {
	return g.Authorize(ctx, user, action, module, resource) == nil
}

// CanProfile checks the profile permission only, ignoring scope policies.
func (g *Gate[U]) CanProfile(ctx context.Context, user U, action Action, module string) bool {
	return g.checkProfile(ctx, user, action, module) == nil
}

func (g *Gate[U]) checkProfile(ctx context.Context, user U, action Action, module string) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return ErrUnauthorized
	}
	if profile == nil {
		return ErrNoProfile
	}
	if !profile.HasPermission(NewPermission(module, action)) {
		return ErrUnauthorized
	}
	return nil
}
