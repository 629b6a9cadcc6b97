package edinet

import (
	"encoding/json"
	"strings"

	"github.com/epeers/edinetfin/internal/models"
)

// ListType selects what documents.json returns
type ListType int

const (
	ListMetadataOnly  ListType = 1
	ListWithDocuments ListType = 2
)

// DocumentType selects which rendition of a filing documents/{docID} returns
type DocumentType int

const (
	DocumentXBRL        DocumentType = 1 // zip holding the XBRL instance and its linkbases
	DocumentPDF         DocumentType = 2
	DocumentAttachments DocumentType = 3 // alternate documents and attachments
	DocumentEnglish     DocumentType = 4
)

// Document classification codes (docTypeCode)
const (
	DocTypeAnnualReport          = "120"
	DocTypeAmendedAnnualReport   = "130"
	DocTypeQuarterlyReport       = "140"
	DocTypeSemiAnnualReport      = "160"
	OrdinanceCorporateDisclosure = "010"
	FormCodeAnnualReport         = "030000"
)

// DocumentListResponse represents the documents.json response. Results stay
// raw so one malformed entry can be skipped on its own.
type DocumentListResponse struct {
	Metadata Metadata          `json:"metadata"`
	Results  []json.RawMessage `json:"results"`
}

// Metadata carries the status embedded in every registry response
type Metadata struct {
	Title     string `json:"title"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	ResultSet struct {
		Count int `json:"count"`
	} `json:"resultset"`
}

// DocumentResult is one filing entry of a daily listing
type DocumentResult struct {
	SeqNumber      int                 `json:"seqNumber"`
	DocID          string              `json:"docID"`
	EdinetCode     string              `json:"edinetCode"`
	SecCode        *string             `json:"secCode"`
	FilerName      string              `json:"filerName"`
	OrdinanceCode  string              `json:"ordinanceCode"`
	FormCode       string              `json:"formCode"`
	DocTypeCode    string              `json:"docTypeCode"`
	PeriodStart    models.FlexibleDate `json:"periodStart"`
	PeriodEnd      models.FlexibleDate `json:"periodEnd"`
	SubmitDateTime models.FlexibleDate `json:"submitDateTime"`
	DocDescription string              `json:"docDescription"`
	XBRLFlag       string              `json:"xbrlFlag"`
}

// errorResponse is the body the registry sends instead of a zip when a download is refused
type errorResponse struct {
	Metadata Metadata `json:"metadata"`
	// API gateway errors use a different shape
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// XBRLDocument is one instance document taken out of a filing archive
type XBRLDocument struct {
	Name string
	Data []byte
}

// NormalizeSecCode trims a securities code to its 4-character form.
// The registry appends a check digit ("72030" for 7203).
func NormalizeSecCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) > 4 {
		return code[:4]
	}
	return code
}

// FilingFilter selects filings out of a daily listing.
// Empty fields match anything.
type FilingFilter struct {
	EdinetCode    string
	SecCode       string
	DocTypeCodes  []string
	OrdinanceCode string
	FormCode      string
}

// AnnualReportFilter matches annual securities reports for one filer.
// Either identifier may be empty.
func AnnualReportFilter(edinetCode, secCode string) FilingFilter {
	return FilingFilter{
		EdinetCode:    edinetCode,
		SecCode:       secCode,
		DocTypeCodes:  []string{DocTypeAnnualReport},
		OrdinanceCode: OrdinanceCorporateDisclosure,
		FormCode:      FormCodeAnnualReport,
	}
}

// Match reports whether a filing satisfies the filter
func (f FilingFilter) Match(ref models.FilingReference) bool {
	if f.EdinetCode != "" && ref.EdinetCode != f.EdinetCode {
		return false
	}
	if f.SecCode != "" && NormalizeSecCode(ref.SecCode) != NormalizeSecCode(f.SecCode) {
		return false
	}
	if len(f.DocTypeCodes) > 0 {
		found := false
		for _, c := range f.DocTypeCodes {
			if c == ref.DocTypeCode {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.OrdinanceCode != "" && ref.OrdinanceCode != f.OrdinanceCode {
		return false
	}
	if f.FormCode != "" && ref.FormCode != f.FormCode {
		return false
	}
	return true
}

// toFilingReference converts a listing entry. ok is false for entries without a
// securities code (funds and other non-equity issuers).
func (d DocumentResult) toFilingReference() (models.FilingReference, bool) {
	if d.SecCode == nil || strings.TrimSpace(*d.SecCode) == "" {
		return models.FilingReference{}, false
	}
	return models.FilingReference{
		DocID:         d.DocID,
		EdinetCode:    d.EdinetCode,
		SecCode:       NormalizeSecCode(*d.SecCode),
		FilerName:     d.FilerName,
		DocTypeCode:   d.DocTypeCode,
		OrdinanceCode: d.OrdinanceCode,
		FormCode:      d.FormCode,
		Description:   d.DocDescription,
		SubmittedAt:   d.SubmitDateTime.Time,
		PeriodStart:   d.PeriodStart.Ptr(),
		PeriodEnd:     d.PeriodEnd.Ptr(),
	}, true
}
