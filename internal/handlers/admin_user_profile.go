package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
)

// AdminUserProfileHandler assigns profiles and user groups to users.
type AdminUserProfileHandler struct {
	DB            *gorm.DB
	CacheResolver *gate.CachedResolver[uint] // To invalidate cache on changes
}

// NewAdminUserProfileHandler creates a new admin user profile handler.
func NewAdminUserProfileHandler(db *gorm.DB, cacheResolver *gate.CachedResolver[uint]) *AdminUserProfileHandler {
	return &AdminUserProfileHandler{DB: db, CacheResolver: cacheResolver}
}

// List returns all users with their profile and groups, and the profiles
// and groups they can be given.
func (h *AdminUserProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	db := h.DB.WithContext(r.Context())
	var users []models.User
	if err := db.Preload("Profile").Preload("Groups").Order("login").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	var profiles []models.Profile
	db.Order("name").Find(&profiles)
	var groups []models.UserGroup
	db.Order("name").Find(&groups)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":    users,
		"profiles": profiles,
		"groups":   groups,
	})
}

// AssignProfile handles POST /admin/users/assign-profile with user_id and
// profile_id (0 or empty removes the profile).
func (h *AdminUserProfileHandler) AssignProfile(w http.ResponseWriter, r *http.Request) {
	userID := formID(r, "user_id")
	if userID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_id"), map[string]string{"user_id": "invalid"})
		return
	}

	var profileID *uint
	if pid := formID(r, "profile_id"); pid != 0 {
		var profile models.Profile
		if err := h.DB.WithContext(r.Context()).First(&profile, pid).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorRecordNotFound"), map[string]string{"profile_id": "not_found"})
			return
		}
		profileID = &pid
	}

	res := h.DB.WithContext(r.Context()).Model(&models.User{}).Where("id = ?", userID).Update("profile_id", profileID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorRecordNotFound"), nil)
		return
	}

	// Invalidate cache for this specific user
	if h.CacheResolver != nil {
		h.CacheResolver.Invalidate(userID)
	}
	httpx.Message(w, http.StatusOK, i18n.T(lang(r), "ProfileAssigned"), nil, map[string]any{
		"user_id":    userID,
		"profile_id": profileID,
	})
}

// AssignGroups handles POST /admin/users/assign-groups: the user's groups
// are replaced by the group_id values.
func (h *AdminUserProfileHandler) AssignGroups(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	userID := formID(r, "user_id")
	var user models.User
	if userID == 0 || h.DB.WithContext(r.Context()).First(&user, userID).Error != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorRecordNotFound"), nil)
		return
	}

	var ids []uint
	for _, s := range r.Form["group_id"] {
		if id := parseID(s); id != 0 {
			ids = append(ids, id)
		}
	}
	groups := []models.UserGroup{}
	if len(ids) > 0 {
		h.DB.WithContext(r.Context()).Where("id IN ?", ids).Find(&groups)
	}
	if err := h.DB.WithContext(r.Context()).Model(&user).Association("Groups").Replace(groups); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	user.Groups = groups
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}
