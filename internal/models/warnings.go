package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = registry scan, W2xxx = filing retrieval/extraction, W3xxx = persistence.
type WarningCode string

const (
	WarnRegistryDateSkipped  WarningCode = "W1001" // registry query for one date failed and was skipped
	WarnDownloadFailed       WarningCode = "W2001" // archive download failed for a filing
	WarnNoStructuredDocument WarningCode = "W2002" // filing carries no XBRL instance
	WarnMalformedDocument    WarningCode = "W2003" // XBRL instance did not parse
	WarnUnresolvedPeriod     WarningCode = "W2004" // no period date in the instance
	WarnPersistFailed        WarningCode = "W3001" // record could not be stored
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
