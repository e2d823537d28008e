package policy

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/internal/models"
)

// GroupScopePolicy limits templates, and the archives generated from them,
// to members of the template's user group. Users flagged Admin pass.
// Archives without a template (direct uploads) are not restricted.
type GroupScopePolicy struct {
	db *gorm.DB
}

func NewGroupScopePolicy(db *gorm.DB) *GroupScopePolicy {
	return &GroupScopePolicy{db: db}
}

// Can implements gate.ScopePolicy.
func (p *GroupScopePolicy) Can(ctx context.Context, userID uint, _ gate.Action, resource any) bool {
	groupID, ok := p.groupOf(ctx, resource)
	if !ok {
		return false
	}
	if groupID == 0 {
		return true
	}

	var user models.User
	if err := p.db.WithContext(ctx).Preload("Groups").First(&user, userID).Error; err != nil {
		return false
	}
	return user.Admin || slices.Contains(user.GroupIDs(), groupID)
}

// groupOf returns the owning group of resource, 0 when unrestricted.
func (p *GroupScopePolicy) groupOf(ctx context.Context, resource any) (uint, bool) {
	switch r := resource.(type) {
	case *models.Template:
		return r.UserGroupID, true
	case *models.ArchiveRow:
		return r.TemplateGroupID, true
	case *models.Archive:
		if r.TemplateID == nil {
			return 0, true
		}
		var groupID uint
		err := p.db.WithContext(ctx).Model(&models.Template{}).
			Where("id = ?", *r.TemplateID).
			Pluck("user_group_id", &groupID).Error
		return groupID, err == nil
	}
	return 0, false
}
