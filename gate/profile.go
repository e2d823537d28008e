package gate

import (
	"context"
	"sort"
)

// Profile is a named set of permissions assigned to a user.
type Profile interface {
	ID() uint
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver finds the profile of a user. A nil profile with a nil
// error means the user has none.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// StaticProfile is an in-memory Profile, handy in tests and for
// bootstrap accounts.
type StaticProfile struct {
	id    uint
	name  string
	perms map[Permission]struct{}
}

// NewStaticProfile creates a profile holding the given permissions.
func NewStaticProfile(id uint, name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{id: id, name: name, perms: make(map[Permission]struct{}, len(permissions))}
	p.Grant(permissions...)
	return p
}

// Grant adds permissions to the profile.
func (p *StaticProfile) Grant(permissions ...Permission) {
	for _, perm := range permissions {
		p.perms[perm] = struct{}{}
	}
}

func (p *StaticProfile) ID() uint     { return p.id }
func (p *StaticProfile) Name() string { return p.name }

// Permissions returns the granted permissions sorted lexically.
func (p *StaticProfile) Permissions() []Permission {
	out := make([]Permission, 0, len(p.perms))
	for perm := range p.perms {
		out = append(out, perm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasPermission checks requested against every grant, wildcards included.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.perms {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver maps users to profiles in memory.
type StaticResolver[U comparable] struct {
	profiles map[U]Profile
}

// NewStaticResolver returns an empty resolver.
func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{profiles: make(map[U]Profile)}
}

// Set assigns profile to user.
func (r *StaticResolver[U]) Set(user U, profile Profile) {
	r.profiles[user] = profile
}

// Resolve implements ProfileResolver.
func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Profile, error) {
	return r.profiles[user], nil
}
