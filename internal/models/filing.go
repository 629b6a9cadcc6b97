package models

import "time"

// FilingReference identifies one disclosure document found in the registry.
// It is created by the registry client and not modified afterwards.
type FilingReference struct {
	DocID         string     `json:"doc_id"`
	EdinetCode    string     `json:"edinet_code"`
	SecCode       string     `json:"sec_code"` // 4-digit, check digit stripped
	FilerName     string     `json:"filer_name"`
	DocTypeCode   string     `json:"doc_type_code"`
	OrdinanceCode string     `json:"ordinance_code"`
	FormCode      string     `json:"form_code"`
	Description   string     `json:"description"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
}

// Company is the persisted issuer a fetch request is made for
type Company struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"` // securities code
	Name       string `json:"name"`
	EdinetCode string `json:"edinet_code"`
}
