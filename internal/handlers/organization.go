package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/validation"
)

// OrganizationHandler reads and edits the organization whose details fill
// the mycompany_* keys.
type OrganizationHandler struct {
	db     *gorm.DB
	entity uint
}

func NewOrganizationHandler(db *gorm.DB, entity uint) *OrganizationHandler {
	return &OrganizationHandler{db: db, entity: entity}
}

func (h *OrganizationHandler) current(r *http.Request) (models.Organization, error) {
	var org models.Organization
	err := h.db.WithContext(r.Context()).Where("entity = ?", h.entity).First(&org).Error
	// If not found, start from an empty organization
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Organization{Entity: h.entity}, nil
	}
	return org, err
}

// Get handles GET /settings/organization.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.current(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

// Update handles POST /settings/organization with a JSON body. Fields
// absent from the body keep their value.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	org, err := h.current(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	id, entity := org.ID, org.Entity
	if err := json.NewDecoder(r.Body).Decode(&org); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	org.ID, org.Entity = id, entity
	org.Name = strings.TrimSpace(org.Name)

	v := make(validation.Violations)
	validation.Required("name", org.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), v)
		return
	}
	if err := h.db.WithContext(r.Context()).Save(&org).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}
