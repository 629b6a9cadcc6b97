package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FetchFinancialDataRequest holds the query parameters for a fetch or a stored read
type FetchFinancialDataRequest struct {
	Years int `form:"years"`
}

// FetchFinancialDataResponse is returned after a registry fetch has run
type FetchFinancialDataResponse struct {
	Code         string            `json:"code"`
	CompanyName  string            `json:"company_name"`
	YearsCovered int               `json:"years_covered"`
	Stored       int               `json:"stored"`
	Summary      *FinancialSummary `json:"summary"`
	Text         string            `json:"text"`
	Warnings     []Warning         `json:"warnings,omitempty"`
}

// FinancialStatementsResponse lists stored fiscal-year records for a company
type FinancialStatementsResponse struct {
	Code         string            `json:"code"`
	CompanyName  string            `json:"company_name"`
	YearsCovered int               `json:"years_covered"`
	Count        int               `json:"count"`
	Summary      *FinancialSummary `json:"summary"`
}

// ExtractResponse wraps facts extracted from an uploaded XBRL instance
type ExtractResponse struct {
	Facts *RawFinancialFacts `json:"facts"`
}

// RegisterCompanyRequest is the body of POST /admin/companies
type RegisterCompanyRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	EdinetCode string `json:"edinet_code"`
}
