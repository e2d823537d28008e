package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/validation"
)

// AdminProfileHandler handles CRUD operations for profiles and their
// permissions.
type AdminProfileHandler struct {
	DB            *gorm.DB
	CacheResolver *gate.CachedResolver[uint] // To invalidate cache on changes
}

// NewAdminProfileHandler creates a new admin profile handler.
func NewAdminProfileHandler(db *gorm.DB, cacheResolver *gate.CachedResolver[uint]) *AdminProfileHandler {
	return &AdminProfileHandler{DB: db, CacheResolver: cacheResolver}
}

func (h *AdminProfileHandler) invalidate() {
	if h.CacheResolver != nil {
		h.CacheResolver.InvalidateAll()
	}
}

type profileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func decodeProfile(r *http.Request) (profileRequest, error) {
	var req profileRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
	} else {
		req.Name = r.FormValue("name")
		req.Description = r.FormValue("description")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	return req, nil
}

func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// List returns all profiles with their permissions.
func (h *AdminProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	var profiles []models.Profile
	if err := h.DB.WithContext(r.Context()).Preload("Permissions").Order("name").Find(&profiles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// Create handles POST /admin/profiles.
func (h *AdminProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeProfile(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), v)
		return
	}

	profile := models.Profile{Name: req.Name, Description: req.Description}
	if err := h.DB.WithContext(r.Context()).Create(&profile).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, i18n.T(lang(r), "invalid_form"), map[string]string{"name": "already_exists"})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, profile)
}

func (h *AdminProfileHandler) find(w http.ResponseWriter, r *http.Request, preload ...string) (*models.Profile, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w, r)
		return nil, false
	}
	q := h.DB.WithContext(r.Context())
	for _, p := range preload {
		q = q.Preload(p)
	}
	var profile models.Profile
	if err := q.First(&profile, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorRecordNotFound"), nil)
		return nil, false
	}
	return &profile, true
}

// Update handles POST /admin/profiles/{id}.
func (h *AdminProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.find(w, r)
	if !ok {
		return
	}
	req, err := decodeProfile(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	if req.Name != "" {
		profile.Name = req.Name
	}
	profile.Description = req.Description
	if err := h.DB.WithContext(r.Context()).Save(profile).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	h.invalidate()
	httpx.JSON(w, http.StatusOK, profile)
}

// Delete handles POST /admin/profiles/{id}/delete. System profiles and
// profiles still assigned to users are kept.
func (h *AdminProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.find(w, r, "Users")
	if !ok {
		return
	}
	if profile.IsSystem {
		httpx.JSONError(w, http.StatusForbidden, i18n.T(lang(r), "forbidden"), map[string]string{"profile": "system"})
		return
	}
	if len(profile.Users) > 0 {
		httpx.JSONError(w, http.StatusConflict, i18n.T(lang(r), "invalid_form"), map[string]string{"profile": "has_users"})
		return
	}
	if err := h.DB.WithContext(r.Context()).Delete(profile).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": profile.ID})
}

type permissionsRequest struct {
	// Codes are "module:action" values, e.g. "archive:create".
	Codes []string `json:"permissions"`
}

// SavePermissions handles POST /admin/profiles/{id}/permissions: the
// profile's permissions are replaced by the given codes.
func (h *AdminProfileHandler) SavePermissions(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.find(w, r)
	if !ok {
		return
	}
	var req permissionsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
			return
		}
		req.Codes = r.Form["permissions"]
	}

	db := h.DB.WithContext(r.Context())
	permissions := []models.Permission{}
	unknown := make(validation.Violations)
	for _, code := range req.Codes {
		module, action := gate.Permission(code).Parse()
		var p models.Permission
		if module == "" || db.Where("module = ? AND action = ?", module, string(action)).First(&p).Error != nil {
			unknown[code] = "invalid"
			continue
		}
		permissions = append(permissions, p)
	}
	if !unknown.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), unknown)
		return
	}

	if err := db.Model(profile).Association("Permissions").Replace(permissions); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	h.invalidate()
	profile.Permissions = permissions
	httpx.JSON(w, http.StatusOK, profile)
}

// ListPermissions returns all available permissions.
func (h *AdminProfileHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	var permissions []models.Permission
	h.DB.WithContext(r.Context()).Order("module, action").Find(&permissions)
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": permissions})
}
