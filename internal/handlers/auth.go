package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/auth"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/models"
)

type AuthHandler struct {
	db       *gorm.DB
	sessions *auth.Sessions
}

func NewAuthHandler(db *gorm.DB, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login checks a login (or email) and password and issues the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
			return
		}
	} else {
		req.Login = r.FormValue("login")
		req.Password = r.FormValue("password")
	}
	req.Login = strings.TrimSpace(req.Login)

	var user models.User
	err := h.db.WithContext(r.Context()).Where("login = ? OR email = ?", req.Login, req.Login).First(&user).Error
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	}
	if req.Login == "" || err != nil {
		logger.FromContext(r.Context()).Info("login failed", "login", req.Login)
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang(r), "invalid_login"), nil)
		return
	}

	h.sessions.Issue(w, user.ID)
	logger.FromContext(r.Context()).Info("login", "user_id", user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the session user with its groups and profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var user models.User
	if err := h.db.WithContext(r.Context()).Preload("Groups").Preload("Profile.Permissions").First(&user, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang(r), "unauthorized"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}
