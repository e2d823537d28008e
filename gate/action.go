package gate

// Action is the verb half of a capability check.
type Action string

const (
	ActionRead     Action = "read"
	ActionList     Action = "list"
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionDelete   Action = "delete"
	ActionDownload Action = "download"
)

// Valid reports whether a is one of the known actions or the wildcard.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionList, ActionView, ActionCreate, ActionDelete, ActionDownload, WildcardAll:
		return true
	}
	return false
}
