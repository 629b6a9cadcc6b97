package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/edinetfin/internal/models"
	log "github.com/sirupsen/logrus"
)

// ImportCompaniesResult contains the results of a company list import
type ImportCompaniesResult struct {
	CompaniesInserted int      `json:"companies_inserted"`
	CompaniesUpdated  int      `json:"companies_updated"`
	CompaniesSkipped  int      `json:"companies_skipped"`
	Errors            []string `json:"errors"`
}

// CompanyStore is the persistence CompanyService needs
type CompanyStore interface {
	CompanyLookup
	Create(ctx context.Context, c *models.Company) (int64, error)
	BulkUpsert(ctx context.Context, companies []models.Company) (inserted int, updated int, errs []error)
	Delete(ctx context.Context, id int64) error
}

// CompanyService registers the companies financial data can be fetched for
type CompanyService struct {
	store CompanyStore
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(store CompanyStore) *CompanyService {
	return &CompanyService{store: store}
}

// RegisterCompany creates a company or updates the one with the same code
func (s *CompanyService) RegisterCompany(ctx context.Context, c models.Company) (*models.Company, error) {
	id, err := s.store.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

// ImportCompanies upserts a parsed company list. A code listed twice keeps its last row;
// earlier rows count as skipped.
func (s *CompanyService) ImportCompanies(ctx context.Context, companies []models.Company) (*ImportCompaniesResult, error) {
	defer TrackTime("ImportCompanies", time.Now())

	result := &ImportCompaniesResult{Errors: []string{}}

	last := make(map[string]int, len(companies))
	for i, c := range companies {
		last[c.Code] = i
	}
	unique := make([]models.Company, 0, len(last))
	for i, c := range companies {
		if last[c.Code] != i {
			result.CompaniesSkipped++
			continue
		}
		unique = append(unique, c)
	}

	inserted, updated, errs := s.store.BulkUpsert(ctx, unique)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.CompaniesInserted = inserted
	result.CompaniesUpdated = updated
	for _, err := range errs {
		result.Errors = append(result.Errors, err.Error())
	}

	log.Infof("Imported companies: %d inserted, %d updated, %d skipped, %d errors",
		inserted, updated, result.CompaniesSkipped, len(errs))
	return result, nil
}

// DeleteCompany removes a company and its stored statements
func (s *CompanyService) DeleteCompany(ctx context.Context, code string) error {
	company, err := findCompany(ctx, s.store, code)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, company.ID); err != nil {
		return fmt.Errorf("failed to delete company %s: %w", code, err)
	}
	return nil
}
