package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
)

// companyColumns maps accepted header names to a column key. The Japanese names are
// the ones used by the registry's downloadable EDINET code list.
var companyColumns = map[string]string{
	"code":        "code",
	"sec_code":    "code",
	"証券コード":       "code",
	"name":        "name",
	"提出者名":        "name",
	"edinet_code": "edinet_code",
	"ｅｄｉｎｅｔコード":   "edinet_code",
	"edinetコード":   "edinet_code",
}

// ParseCompaniesCSV parses a company list CSV into companies ready to register.
// Required columns: code, name
// Optional columns: edinet_code
// Codes are cut to their 4-character form. Rows with an empty code (filers with no
// listed security) are skipped.
func ParseCompaniesCSV(r io.Reader) ([]models.Company, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if key, ok := companyColumns[name]; ok {
			colIdx[key] = i
		}
	}

	for _, col := range []string{"code", "name"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	column := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var companies []models.Company
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		code := edinet.NormalizeSecCode(column(record, "code"))
		if code == "" {
			continue
		}
		if !codePattern.MatchString(code) {
			return nil, fmt.Errorf("row %d: invalid securities code %q", rowNum, code)
		}

		name := column(record, "name")
		if name == "" {
			return nil, fmt.Errorf("row %d: name is empty", rowNum)
		}

		companies = append(companies, models.Company{
			Code:       code,
			Name:       name,
			EdinetCode: column(record, "edinet_code"),
		})
	}

	return companies, nil
}
