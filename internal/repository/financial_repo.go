package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/epeers/edinetfin/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fact columns share their names with models.Field, in field order.
var (
	factColumns = fieldColumns()
	upsertSQL   = buildUpsertSQL()
	listSQL     = buildListSQL()
)

// FinancialStatementRepository stores one row per (company, fiscal year, period)
type FinancialStatementRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialStatementRepository creates a new FinancialStatementRepository
func NewFinancialStatementRepository(pool *pgxpool.Pool) *FinancialStatementRepository {
	return &FinancialStatementRepository{pool: pool}
}

// Upsert inserts a record or replaces every column of the existing one
func (r *FinancialStatementRepository) Upsert(ctx context.Context, rec *models.FiscalYearRecord) error {
	if _, err := r.pool.Exec(ctx, upsertSQL, upsertArgs(rec)...); err != nil {
		return fmt.Errorf("failed to upsert FY%d for company %d: %w", rec.FiscalYear, rec.CompanyID, err)
	}
	return nil
}

// UpsertBatch stores several records in one round trip
func (r *FinancialStatementRepository) UpsertBatch(ctx context.Context, recs []models.FiscalYearRecord) error {
	if len(recs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range recs {
		batch.Queue(upsertSQL, upsertArgs(&recs[i])...)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range recs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert FY%d for company %d: %w", recs[i].FiscalYear, recs[i].CompanyID, err)
		}
	}
	return nil
}

// List returns the latest years full-year records for a company, ascending by fiscal year.
func (r *FinancialStatementRepository) List(ctx context.Context, companyID int64, years int) ([]models.FiscalYearRecord, error) {
	rows, err := r.pool.Query(ctx, listSQL, companyID, string(models.PeriodFullYear), years)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial statements: %w", err)
	}
	defer rows.Close()

	var result []models.FiscalYearRecord
	for rows.Next() {
		var (
			rec      models.FiscalYearRecord
			period   string
			standard string
			docID    *string
			values   = make([]*string, len(factColumns))
		)
		dest := []any{&rec.CompanyID, &rec.FiscalYear, &period, &standard, &docID}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan financial statement: %w", err)
		}

		rec.Period = models.FiscalPeriod(period)
		rec.Standard = models.AccountingStandard(standard)
		if docID != nil {
			rec.DocID = *docID
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			n, err := models.ParseNumber(*v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", factColumns[i], err)
			}
			rec.Set(models.Field(i), n)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// newest-first from the query
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

func fieldColumns() []string {
	fields := models.AllFields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.String()
	}
	return cols
}

func buildUpsertSQL() string {
	cols := append([]string{"company_id", "fiscal_year", "fiscal_period", "accounting_standard", "doc_id"}, factColumns...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i >= 5 {
			placeholders[i] += "::numeric"
		}
	}
	updates := make([]string, 0, len(cols)-3)
	for _, c := range cols[3:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	updates = append(updates, "updated_at = now()")

	return fmt.Sprintf(`
		INSERT INTO fact_financial_statement (%s)
		VALUES (%s)
		ON CONFLICT (company_id, fiscal_year, fiscal_period) DO UPDATE
		SET %s
	`, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

func buildListSQL() string {
	selects := make([]string, len(factColumns))
	for i, c := range factColumns {
		selects[i] = c + "::text"
	}
	return fmt.Sprintf(`
		SELECT company_id, fiscal_year, fiscal_period, accounting_standard, doc_id, %s
		FROM fact_financial_statement
		WHERE company_id = $1 AND fiscal_period = $2
		ORDER BY fiscal_year DESC
		LIMIT $3
	`, strings.Join(selects, ", "))
}

func upsertArgs(rec *models.FiscalYearRecord) []any {
	period := rec.Period
	if period == "" {
		period = models.PeriodFullYear
	}
	standard := rec.Standard
	if standard == "" {
		standard = models.StandardJGAAP
	}
	var docID *string
	if rec.DocID != "" {
		docID = &rec.DocID
	}

	args := []any{rec.CompanyID, rec.FiscalYear, string(period), string(standard), docID}
	for _, f := range models.AllFields() {
		v, ok := rec.Get(f)
		if !ok {
			args = append(args, nil)
			continue
		}
		args = append(args, v.Decimal().String())
	}
	return args
}
