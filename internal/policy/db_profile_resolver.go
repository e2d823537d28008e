package policy

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/internal/models"
)

// DBProfileResolver reads a user's profile and its module:action grants
// from the profiles tables.
type DBProfileResolver struct {
	DB *gorm.DB
}

func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve returns a snapshot of the user's profile. A user without profile
// gets (nil, nil), an unknown user an error.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Profile.Permissions").First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("resolve profile of user %d: %w", userID, err)
	}
	if user.Profile == nil {
		return nil, nil
	}
	grants := make([]gate.Permission, 0, len(user.Profile.Permissions))
	for _, p := range user.Profile.Permissions {
		grants = append(grants, gate.Permission(p.Code()))
	}
	return gate.NewStaticProfile(user.Profile.ID, user.Profile.Name, grants...), nil
}
