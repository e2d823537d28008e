package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-multidoc/auth"
	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/services"
	"github.com/diewo77/go-multidoc/internal/substitution"
)

// ArchiveOptions carries the settings archive endpoints need.
type ArchiveOptions struct {
	MaxUploadMB int
	Entity      uint
	PublicURL   string
	// Location is the time zone of generated dates, ServerLocation the
	// one of the current_server_* keys.
	Location       *time.Location
	ServerLocation *time.Location
}

// ArchiveHandler lists, generates, uploads, downloads and deletes the
// archives of third parties and contacts.
type ArchiveHandler struct {
	archives  *services.ArchiveService
	templates *services.TemplateService
	entities  *services.EntityService
	generator *services.GeneratorService
	gate      Authorizer
	opts      ArchiveOptions
	now       func() time.Time
}

func NewArchiveHandler(
	archives *services.ArchiveService,
	templates *services.TemplateService,
	entities *services.EntityService,
	generator *services.GeneratorService,
	gate Authorizer,
	opts ArchiveOptions,
) *ArchiveHandler {
	return &ArchiveHandler{
		archives:  archives,
		templates: templates,
		entities:  entities,
		generator: generator,
		gate:      gate,
		opts:      opts,
		now:       time.Now,
	}
}

// object resolves the {kind}/{id} path into an entity.
func (h *ArchiveHandler) object(w http.ResponseWriter, r *http.Request) (substitution.Entity, bool) {
	kind := r.PathValue("kind")
	if !models.ValidObjectType(kind) {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "ErrorUnknownObjectType"), nil)
		return nil, false
	}
	id, ok := pathID(r, "id")
	if !ok {
		badID(w, r)
		return nil, false
	}
	e, err := h.entities.Load(r.Context(), kind, id)
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	return e, true
}

// List handles GET /archives/{kind}/{id}?category=.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	e, ok := h.object(w, r)
	if !ok {
		return
	}
	var category *uint
	if c := formID(r, "category"); c != 0 {
		category = &c
	}
	rows, err := h.archives.ListByObject(r.Context(), e.Kind(), e.ID(), category)
	if err != nil {
		fail(w, r, err)
		return
	}
	payload := map[string]any{"archives": rows}
	if ce, ok := e.(substitution.CompanyEntity); ok {
		payload["categories"] = ce.Company.Categories
	}
	httpx.JSON(w, http.StatusOK, payload)
}

// Generate handles POST /archives/{kind}/{id}/generate with the form values
// template_id, category_id and pdf.
func (h *ArchiveHandler) Generate(w http.ResponseWriter, r *http.Request) {
	e, ok := h.object(w, r)
	if !ok {
		return
	}
	templateID := formID(r, "template_id")
	t, err := h.templates.Fetch(r.Context(), templateID, "")
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorTemplateNotFound"), nil)
			return
		}
		fail(w, r, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionCreate, moduleArchive, t); err != nil {
		fail(w, r, err)
		return
	}

	c, err := h.context(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	req := services.Request{
		Template:     t,
		Entity:       e,
		Context:      c,
		ConvertToPDF: formBool(r, "pdf"),
	}
	if cat := formID(r, "category_id"); cat != 0 {
		req.TagFilter = services.TagFilter(e, cat)
		if req.TagFilter != "" {
			req.CategoryID = &cat
		}
	}

	res := h.generator.Generate(r.Context(), req)
	if !res.OK() {
		httpx.JSON(w, generateStatus(res.Code), httpx.ErrorResponse{Error: res.Error, Details: res.Errors})
		return
	}
	httpx.Message(w, http.StatusCreated, i18n.T(c.Lang, "ArchiveGeneratedSuccess"), res.Errors, res.Archive)
}

func generateStatus(code int) int {
	switch code {
	case services.CodeTemplateFileMissing:
		return http.StatusNotFound
	case services.CodeContainerOpen:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// context builds the substitution context of the request user.
func (h *ArchiveHandler) context(r *http.Request) (substitution.Context, error) {
	uid, _ := auth.UserIDFromContext(r.Context())
	user, err := h.entities.User(r.Context(), uid)
	if err != nil {
		return substitution.Context{}, err
	}
	org, err := h.entities.Organization(r.Context(), h.opts.Entity)
	if err != nil {
		return substitution.Context{}, err
	}
	return substitution.Context{
		Organization:   org,
		User:           user,
		Lang:           lang(r),
		Now:            h.now(),
		Location:       h.opts.Location,
		ServerLocation: h.opts.ServerLocation,
		PublicURL:      h.opts.PublicURL,
		Entity:         h.opts.Entity,
	}, nil
}

// Upload handles the multipart POST /archives/{kind}/{id}/upload.
func (h *ArchiveHandler) Upload(w http.ResponseWriter, r *http.Request) {
	e, ok := h.object(w, r)
	if !ok {
		return
	}
	maxUpload := int64(h.opts.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "ErrorFieldRequired", "file"), map[string]string{"file": "required"})
		return
	}
	defer file.Close()

	uid, _ := auth.UserIDFromContext(r.Context())
	in := services.ArchiveUpload{
		ObjectType: e.Kind(),
		ObjectID:   e.ID(),
		FileName:   header.Filename,
		Content:    file,
		UserID:     uid,
		Entity:     h.opts.Entity,
	}
	if cat := formID(r, "category_id"); cat != 0 {
		if in.TagFilter = services.TagFilter(e, cat); in.TagFilter != "" {
			in.CategoryID = &cat
		}
	}
	a, err := h.archives.Upload(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, i18n.T(lang(r), "ArchiveUploadSuccess"), nil, a)
}

// load fetches the {id} archive and checks action on it.
func (h *ArchiveHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Archive, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w, r)
		return nil, false
	}
	a, err := h.archives.Fetch(r.Context(), id, "")
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, moduleArchive, a); err != nil {
		fail(w, r, err)
		return nil, false
	}
	return a, true
}

// Download handles GET /archives/file/{id}/download.
func (h *ArchiveHandler) Download(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r, gate.ActionDownload)
	if !ok {
		return
	}
	if err := httpx.Attachment(w, r, a.FilePath, a.FileName, models.MimeTypeFor(a.FileType)); err != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorFileNotFound"), nil)
	}
}

// Delete handles POST /archives/file/{id}/delete.
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.archives.Delete(r.Context(), a); err != nil {
		fail(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, i18n.T(lang(r), "ArchiveDeleted"), nil, map[string]any{"id": a.ID, "ref": a.Ref})
}
