package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/validation"
)

// ThirdpartyHandler manages the third parties and contacts documents are
// generated for.
type ThirdpartyHandler struct {
	db     *gorm.DB
	entity uint
}

func NewThirdpartyHandler(db *gorm.DB, entity uint) *ThirdpartyHandler {
	return &ThirdpartyHandler{db: db, entity: entity}
}

const pageSize = 20

func page(r *http.Request) int {
	p, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if p < 1 {
		p = 1
	}
	return p
}

// List handles GET /thirdparties?q=&page=.
func (h *ThirdpartyHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	p := page(r)

	db := h.db.WithContext(r.Context()).Model(&models.Company{}).Where("entity = ?", h.entity)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(name_alias) LIKE ? OR LOWER(customer_code) LIKE ?", like, like, like)
	}
	db = db.Session(&gorm.Session{})
	var total int64
	var companies []models.Company
	db.Count(&total)
	if err := db.Preload("Categories").Order("name").Limit(pageSize).Offset((p - 1) * pageSize).Find(&companies).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"thirdparties": companies,
		"query":        query,
		"page":         p,
		"total":        total,
		"limit":        pageSize,
	})
}

type companyRequest struct {
	models.Company
	CategoryIDs []uint `json:"category_ids"`
}

// Create handles POST /thirdparties with a JSON body.
func (h *ThirdpartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	company := req.Company
	company.ID = 0
	company.Entity = h.entity
	company.Name = strings.TrimSpace(company.Name)
	company.CustomerCode = strings.ToUpper(strings.TrimSpace(company.CustomerCode))

	v := make(validation.Violations)
	validation.Required("name", company.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), v)
		return
	}

	db := h.db.WithContext(r.Context())
	company.Categories = nil
	if len(req.CategoryIDs) > 0 {
		db.Where("id IN ?", req.CategoryIDs).Find(&company.Categories)
	}
	if err := db.Create(&company).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, company)
}

// View handles GET /thirdparties/{id}: the company, its categories and
// contacts.
func (h *ThirdpartyHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w, r)
		return
	}
	db := h.db.WithContext(r.Context())
	var company models.Company
	if err := db.Preload("Categories").Where("entity = ?", h.entity).First(&company, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorRecordNotFound"), nil)
		return
	}
	var contacts []models.Contact
	db.Where("company_id = ?", company.ID).Order("lastname, firstname").Find(&contacts)
	httpx.JSON(w, http.StatusOK, map[string]any{"thirdparty": company, "contacts": contacts})
}

// CreateContact handles POST /contacts with a JSON body.
func (h *ThirdpartyHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var contact models.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), nil)
		return
	}
	contact.ID = 0
	contact.Entity = h.entity
	contact.Company = nil
	contact.Lastname = strings.TrimSpace(contact.Lastname)

	v := make(validation.Violations)
	validation.Required("lastname", contact.Lastname, v)
	db := h.db.WithContext(r.Context())
	if contact.CompanyID != nil {
		var n int64
		db.Model(&models.Company{}).Where("id = ?", *contact.CompanyID).Count(&n)
		if n == 0 {
			v["company_id"] = "invalid"
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_form"), v)
		return
	}
	if err := db.Create(&contact).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang(r), "ErrorDatabase"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}

// ViewContact handles GET /contacts/{id}.
func (h *ThirdpartyHandler) ViewContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w, r)
		return
	}
	var contact models.Contact
	if err := h.db.WithContext(r.Context()).Preload("Company").Where("entity = ?", h.entity).First(&contact, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang(r), "ErrorRecordNotFound"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"contact": contact})
}
