package handlers

import (
	"net/http"

	"github.com/diewo77/go-multidoc/auth"
	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/services"
	"github.com/diewo77/go-multidoc/internal/storage"
	"github.com/diewo77/go-multidoc/validation"
)

// TemplateHandler serves template upload, listing, download and deletion.
type TemplateHandler struct {
	templates *services.TemplateService
	entities  *services.EntityService
	gate      Authorizer
	maxUpload int64
	entity    uint
}

func NewTemplateHandler(templates *services.TemplateService, entities *services.EntityService, gate Authorizer, maxUploadMB int, entity uint) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		entities:  entities,
		gate:      gate,
		maxUpload: int64(maxUploadMB) << 20,
		entity:    entity,
	}
}

// List handles GET /templates?group=&active=. Inactive templates are
// included when active=0.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID := formID(r, "group")
	if groupID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "ErrorUserGroupRequired"), map[string]string{"group": "required"})
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionList, moduleTemplate, &models.Template{UserGroupID: groupID}); err != nil {
		fail(w, r, err)
		return
	}
	list, err := h.templates.ListByGroup(r.Context(), groupID, r.URL.Query().Get("active") != "0")
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"templates": list})
}

// Mine handles GET /templates/mine: the templates the user may generate from.
func (h *TemplateHandler) Mine(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	user, err := h.entities.User(r.Context(), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	list, err := h.templates.ListForUser(r.Context(), user)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"templates": list})
}

// Upload handles the multipart POST /templates.
func (h *TemplateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "ErrorFieldRequired", "file"), map[string]string{"file": "required"})
		return
	}
	defer file.Close()

	groupID := formID(r, "group_id")
	v := make(validation.Violations)
	validation.PositiveUint("group_id", groupID, v)
	validation.AllowedExtension("file", header.Filename, models.AllowedFileTypes, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), v)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionCreate, moduleTemplate, &models.Template{UserGroupID: groupID}); err != nil {
		fail(w, r, err)
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	in := services.TemplateUpload{
		GroupID:     groupID,
		Label:       r.FormValue("label"),
		Description: r.FormValue("description"),
		Tag:         r.FormValue("tag"),
		FileName:    header.Filename,
		Content:     file,
		UserID:      uid,
		Entity:      h.entity,
	}
	if cat := formID(r, "category_id"); cat != 0 {
		in.CategoryID = &cat
	}
	t, err := h.templates.Upload(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, i18n.T(lang(r), "TemplateUploadSuccess"), nil, t)
}

// load fetches the {id} template and checks action on it.
func (h *TemplateHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Template, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w, r)
		return nil, false
	}
	t, err := h.templates.Fetch(r.Context(), id, "")
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorTemplateNotFound"), nil)
			return nil, false
		}
		fail(w, r, err)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, moduleTemplate, t); err != nil {
		fail(w, r, err)
		return nil, false
	}
	return t, true
}

// Get handles GET /templates/{id}.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"template":  t,
		"available": storage.Exists(t.FilePath),
	})
}

// Download handles GET /templates/{id}/download.
func (h *TemplateHandler) Download(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionDownload)
	if !ok {
		return
	}
	if err := httpx.Attachment(w, r, t.FilePath, t.FileName, t.MimeType); err != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorFileNotFound"), nil)
	}
}

// Delete handles POST /templates/{id}/delete.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.templates.Delete(r.Context(), t); err != nil {
		fail(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, i18n.T(lang(r), "TemplateDeleted"), nil, map[string]any{"id": t.ID, "ref": t.Ref})
}
