package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/epeers/edinetfin/internal/models"
	"github.com/epeers/edinetfin/internal/repository"
)

// companyStore is an in-memory CompanyStore.
type companyStore struct {
	byCode  map[string]*models.Company
	nextID  int64
	failFor string
}

func newCompanyStore() *companyStore {
	return &companyStore{byCode: make(map[string]*models.Company), nextID: 1}
}

func (s *companyStore) GetByCode(_ context.Context, code string) (*models.Company, error) {
	c, ok := s.byCode[code]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return c, nil
}

func (s *companyStore) Create(ctx context.Context, c *models.Company) (int64, error) {
	if _, _, errs := s.BulkUpsert(ctx, []models.Company{*c}); len(errs) > 0 {
		return 0, errs[0]
	}
	return s.byCode[c.Code].ID, nil
}

func (s *companyStore) BulkUpsert(_ context.Context, companies []models.Company) (int, int, []error) {
	var inserted, updated int
	var errs []error
	for _, c := range companies {
		if c.Code == s.failFor {
			errs = append(errs, fmt.Errorf("failed to upsert company %s: constraint", c.Code))
			continue
		}
		if existing, ok := s.byCode[c.Code]; ok {
			existing.Name = c.Name
			if c.EdinetCode != "" {
				existing.EdinetCode = c.EdinetCode
			}
			updated++
			continue
		}
		c.ID = s.nextID
		s.nextID++
		s.byCode[c.Code] = &c
		inserted++
	}
	return inserted, updated, errs
}

func (s *companyStore) Delete(_ context.Context, id int64) error {
	for code, c := range s.byCode {
		if c.ID == id {
			delete(s.byCode, code)
			return nil
		}
	}
	return repository.ErrCompanyNotFound
}

func TestCompanyService_RegisterCompany(t *testing.T) {
	store := newCompanyStore()
	svc := NewCompanyService(store)

	c, err := svc.RegisterCompany(context.Background(), models.Company{Code: "7203", Name: "トヨタ自動車", EdinetCode: "E02144"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 1 {
		t.Errorf("expected id 1, got %d", c.ID)
	}

	again, err := svc.RegisterCompany(context.Background(), models.Company{Code: "7203", Name: "トヨタ自動車株式会社"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != 1 || store.byCode["7203"].EdinetCode != "E02144" {
		t.Errorf("expected update in place keeping the EDINET code, got %+v", store.byCode["7203"])
	}
}

func TestCompanyService_ImportCompanies(t *testing.T) {
	store := newCompanyStore()
	store.byCode["6758"] = &models.Company{ID: 99, Code: "6758", Name: "ソニー"}
	store.failFor = "9984"
	svc := NewCompanyService(store)

	result, err := svc.ImportCompanies(context.Background(), []models.Company{
		{Code: "7203", Name: "old name"},
		{Code: "6758", Name: "ソニーグループ"},
		{Code: "9984", Name: "ソフトバンクグループ"},
		{Code: "7203", Name: "トヨタ自動車"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CompaniesInserted != 1 || result.CompaniesUpdated != 1 || result.CompaniesSkipped != 1 {
		t.Errorf("unexpected counts %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", result.Errors)
	}
	if store.byCode["7203"].Name != "トヨタ自動車" {
		t.Errorf("expected the last row for 7203 to win, got %q", store.byCode["7203"].Name)
	}
}

func TestCompanyService_ImportCompaniesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCompanyService(newCompanyStore()).ImportCompanies(ctx, []models.Company{{Code: "7203", Name: "x"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompanyService_DeleteCompany(t *testing.T) {
	store := newCompanyStore()
	svc := NewCompanyService(store)
	svc.RegisterCompany(context.Background(), models.Company{Code: "7203", Name: "トヨタ自動車"})

	if err := svc.DeleteCompany(context.Background(), "7203"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.byCode["7203"]; ok {
		t.Error("expected company removed")
	}
	if err := svc.DeleteCompany(context.Background(), "7203"); !errors.Is(err, repository.ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound, got %v", err)
	}
}
