package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epeers/edinetfin/internal/models"
	"github.com/epeers/edinetfin/internal/repository"
	"github.com/epeers/edinetfin/internal/services"
	"github.com/gin-gonic/gin"
)

type stubAdmin struct {
	registered []models.Company
	imported   []models.Company
	deleted    string
	err        error
}

func (s *stubAdmin) RegisterCompany(_ context.Context, c models.Company) (*models.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = append(s.registered, c)
	c.ID = 7
	return &c, nil
}

func (s *stubAdmin) ImportCompanies(_ context.Context, companies []models.Company) (*services.ImportCompaniesResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.imported = companies
	return &services.ImportCompaniesResult{CompaniesInserted: len(companies), Errors: []string{}}, nil
}

func (s *stubAdmin) DeleteCompany(_ context.Context, code string) error {
	s.deleted = code
	return s.err
}

func newAdminRouter(svc CompanyAdmin) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(svc)
	r := gin.New()
	r.POST("/admin/companies", h.RegisterCompany)
	r.POST("/admin/companies/import", h.ImportCompanies)
	r.DELETE("/admin/companies/:code", h.DeleteCompany)
	return r
}

func TestRegisterCompany(t *testing.T) {
	svc := &stubAdmin{}
	body := `{"code":"72030","name":" トヨタ自動車 ","edinet_code":"E02144"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/companies", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	newAdminRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(svc.registered) != 1 || svc.registered[0].Code != "7203" || svc.registered[0].Name != "トヨタ自動車" {
		t.Errorf("unexpected registration %+v", svc.registered)
	}
	var company models.Company
	json.Unmarshal(w.Body.Bytes(), &company)
	if company.ID != 7 {
		t.Errorf("expected id 7 in response, got %d", company.ID)
	}
}

func TestRegisterCompany_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"code":"7203"}`},
		{"bad code", `{"code":"7-2","name":"x"}`},
		{"not json", `code=7203`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/companies", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newAdminRouter(&stubAdmin{}).ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestImportCompanies(t *testing.T) {
	svc := &stubAdmin{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/companies/import",
		bytes.NewBufferString("code,name\n7203,トヨタ\n6758,ソニー\n"))
	req.Header.Set("Content-Type", "text/csv")
	newAdminRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(svc.imported) != 2 {
		t.Errorf("expected 2 companies imported, got %d", len(svc.imported))
	}
	var result services.ImportCompaniesResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.CompaniesInserted != 2 {
		t.Errorf("expected 2 inserted, got %d", result.CompaniesInserted)
	}
}

func TestImportCompanies_BadCSV(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/companies/import", bytes.NewBufferString("ticker\nAAPL\n"))
	req.Header.Set("Content-Type", "text/csv")
	newAdminRouter(&stubAdmin{}).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDeleteCompany(t *testing.T) {
	svc := &stubAdmin{}
	w := httptest.NewRecorder()
	newAdminRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/companies/7203", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if svc.deleted != "7203" {
		t.Errorf("expected 7203 deleted, got %q", svc.deleted)
	}

	w = httptest.NewRecorder()
	newAdminRouter(&stubAdmin{err: repository.ErrCompanyNotFound}).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/companies/9999", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
