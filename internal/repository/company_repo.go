package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/edinetfin/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// GetByCode retrieves a company by its 4-character securities code
func (r *CompanyRepository) GetByCode(ctx context.Context, code string) (*models.Company, error) {
	query := `
		SELECT id, code, name, COALESCE(edinet_code, '')
		FROM dim_company
		WHERE code = $1
	`
	c := &models.Company{}
	err := r.pool.QueryRow(ctx, query, code).Scan(&c.ID, &c.Code, &c.Name, &c.EdinetCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// Create inserts a company, or updates its name and EDINET code if the code exists
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) (int64, error) {
	query := `
		INSERT INTO dim_company (code, name, edinet_code)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, edinet_code = COALESCE(EXCLUDED.edinet_code, dim_company.edinet_code)
		RETURNING id
	`
	var id int64
	if err := r.pool.QueryRow(ctx, query, c.Code, c.Name, c.EdinetCode).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create company: %w", err)
	}
	return id, nil
}

// Delete removes a company and, by cascade, its statements
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dim_company WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// BulkUpsert creates or updates several companies in one batch.
// Returns the count of inserted and updated companies, plus any per-row errors.
func (r *CompanyRepository) BulkUpsert(
	ctx context.Context,
	companies []models.Company,
) (inserted int, updated int, errs []error) {
	if len(companies) == 0 {
		return 0, 0, nil
	}

	query := `
		INSERT INTO dim_company (code, name, edinet_code)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, edinet_code = COALESCE(EXCLUDED.edinet_code, dim_company.edinet_code)
		RETURNING (xmax = 0)
	`

	batch := &pgx.Batch{}
	for _, c := range companies {
		batch.Queue(query, c.Code, c.Name, c.EdinetCode)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, c := range companies {
		var created bool
		if err := br.QueryRow().Scan(&created); err != nil {
			errs = append(errs, fmt.Errorf("failed to upsert company %s: %w", c.Code, err))
			continue
		}
		if created {
			inserted++
		} else {
			updated++
		}
	}

	return inserted, updated, errs
}
