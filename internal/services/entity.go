package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/substitution"
)

// EntityService loads the records documents are generated for.
type EntityService struct {
	db *gorm.DB
}

func NewEntityService(db *gorm.DB) *EntityService {
	return &EntityService{db: db}
}

func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var v T
	if err := q.First(&v, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &v, nil
}

// Company loads a third party with its categories.
func (s *EntityService) Company(ctx context.Context, id uint) (*models.Company, error) {
	return first[models.Company](s.db.WithContext(ctx).Preload("Categories"), id)
}

// Contact loads a contact and its company, if any.
func (s *EntityService) Contact(ctx context.Context, id uint) (*models.Contact, error) {
	return first[models.Contact](s.db.WithContext(ctx).Preload("Company"), id)
}

// Organization loads the organization of entity. A missing row yields an
// empty organization so documents still resolve every mycompany_ key.
func (s *EntityService) Organization(ctx context.Context, entity uint) (*models.Organization, error) {
	org, err := first[models.Organization](s.db.WithContext(ctx).Where("entity = ?", entity))
	if errors.Is(err, ErrRecordNotFound) {
		return &models.Organization{Entity: entity}, nil
	}
	return org, err
}

// User loads a user with its groups.
func (s *EntityService) User(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx).Preload("Groups"), id)
}

// Load returns the entity of the given object type.
func (s *EntityService) Load(ctx context.Context, objectType string, id uint) (substitution.Entity, error) {
	switch objectType {
	case models.ObjectThirdparty:
		c, err := s.Company(ctx, id)
		if err != nil {
			return nil, err
		}
		return substitution.CompanyEntity{Company: c}, nil
	case models.ObjectContact:
		c, err := s.Contact(ctx, id)
		if err != nil {
			return nil, err
		}
		return substitution.ContactEntity{Contact: c}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownObjectType, objectType)
	}
}

// TagFilter returns the label of categoryID when the entity belongs to that
// category, "" otherwise. Only third parties carry categories.
func TagFilter(e substitution.Entity, categoryID uint) string {
	ce, ok := e.(substitution.CompanyEntity)
	if !ok || categoryID == 0 {
		return ""
	}
	for _, cat := range ce.Company.Categories {
		if cat.ID == categoryID {
			return cat.Label
		}
	}
	return ""
}
