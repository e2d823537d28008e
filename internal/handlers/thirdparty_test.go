package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-multidoc/internal/models"
)

func TestThirdpartyHandler(t *testing.T) {
	conn := setupTestDB(t)
	vip := models.Category{Label: "VIP", Type: "customer"}
	conn.Create(&vip)
	h := NewThirdpartyHandler(conn, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /thirdparties", h.List)
	mux.HandleFunc("POST /thirdparties", h.Create)
	mux.HandleFunc("GET /thirdparties/{id}", h.View)
	mux.HandleFunc("POST /contacts", h.CreateContact)
	mux.HandleFunc("GET /contacts/{id}", h.ViewContact)

	rr := serve(mux, jsonRequest(http.MethodPost, "/thirdparties", map[string]any{
		"name":          "  ACME  ",
		"customer_code": "cu001",
		"town":          "Lyon",
		"category_ids":  []uint{vip.ID},
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var acme models.Company
	json.Unmarshal(rr.Body.Bytes(), &acme)
	if acme.Name != "ACME" || acme.CustomerCode != "CU001" || len(acme.Categories) != 1 {
		t.Errorf("company = %+v", acme)
	}
	serve(mux, jsonRequest(http.MethodPost, "/thirdparties", map[string]any{"name": "Globex"}))

	if rr := serve(mux, jsonRequest(http.MethodPost, "/thirdparties", map[string]any{"name": " "})); rr.Code != http.StatusBadRequest {
		t.Errorf("empty name: %d", rr.Code)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?q=acm", 1},
		{"?q=cu001", 1},
		{"?q=nothing", 0},
	}
	for _, tt := range tests {
		rr := serve(mux, httptest.NewRequest(http.MethodGet, "/thirdparties"+tt.query, nil))
		var payload struct {
			Thirdparties []models.Company `json:"thirdparties"`
			Total        int64            `json:"total"`
		}
		json.Unmarshal(rr.Body.Bytes(), &payload)
		if len(payload.Thirdparties) != tt.want || payload.Total != int64(tt.want) {
			t.Errorf("list %q: %d rows, total %d, want %d", tt.query, len(payload.Thirdparties), payload.Total, tt.want)
		}
	}

	rr = serve(mux, jsonRequest(http.MethodPost, "/contacts", map[string]any{"firstname": "John", "lastname": "Smith", "company_id": acme.ID}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create contact: %d %s", rr.Code, rr.Body.String())
	}
	var john models.Contact
	json.Unmarshal(rr.Body.Bytes(), &john)

	if rr := serve(mux, jsonRequest(http.MethodPost, "/contacts", map[string]any{"lastname": "Doe", "company_id": 9999})); rr.Code != http.StatusBadRequest {
		t.Errorf("contact with unknown company: %d", rr.Code)
	}

	rr = serve(mux, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/thirdparties/%d", acme.ID), nil))
	var view struct {
		Thirdparty models.Company   `json:"thirdparty"`
		Contacts   []models.Contact `json:"contacts"`
	}
	json.Unmarshal(rr.Body.Bytes(), &view)
	if rr.Code != http.StatusOK || len(view.Contacts) != 1 || view.Contacts[0].Lastname != "Smith" {
		t.Errorf("view: %d %+v", rr.Code, view)
	}

	rr = serve(mux, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/contacts/%d", john.ID), nil))
	if rr.Code != http.StatusOK {
		t.Errorf("view contact: %d", rr.Code)
	}
	if rr := serve(mux, httptest.NewRequest(http.MethodGet, "/contacts/9999", nil)); rr.Code != http.StatusNotFound {
		t.Errorf("unknown contact: %d", rr.Code)
	}
}

func TestOrganizationHandler(t *testing.T) {
	conn := setupTestDB(t)
	h := NewOrganizationHandler(conn, 1)

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/settings/organization", nil))
	var org models.Organization
	json.Unmarshal(rr.Body.Bytes(), &org)
	if rr.Code != http.StatusOK || org.ID != 0 || org.Entity != 1 {
		t.Errorf("empty organization: %d %+v", rr.Code, org)
	}

	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(http.MethodPost, "/settings/organization", map[string]any{"name": "My Org", "town": "Paris", "entity": 7}))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}
	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(http.MethodPost, "/settings/organization", map[string]any{"zip": "75001"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("second update: %d %s", rr.Code, rr.Body.String())
	}

	var rows []models.Organization
	conn.Find(&rows)
	if len(rows) != 1 || rows[0].Entity != 1 || rows[0].Name != "My Org" || rows[0].Town != "Paris" || rows[0].Zip != "75001" {
		t.Errorf("organizations = %+v", rows)
	}

	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(http.MethodPost, "/settings/organization", map[string]any{"name": ""}))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty name: %d", rr.Code)
	}
}
