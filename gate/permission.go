package gate

import "strings"

// Permission is a "module:action" capability, e.g. "archive:create"
// or "template:delete".
type Permission string

// Wildcards for super permissions.
const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission builds a permission from a module name and an action.
func NewPermission(module string, action Action) Permission {
	return Permission(module + ":" + string(action))
}

// Parse splits the permission. Malformed values yield empty strings.
func (p Permission) Parse() (module string, action Action) {
	mod, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return mod, Action(act)
}

// Matches reports whether p grants requested. "*:*" grants everything,
// "archive:*" grants every archive action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	mod, act := p.Parse()
	reqMod, _ := requested.Parse()
	return mod != "" && mod == reqMod && string(act) == WildcardAll
}
