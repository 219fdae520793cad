package model

import "strings"

// NoEmail is the email placeholder written when no address was found.
const NoEmail = "-"

// Status values written to the ledger and the skip report.
// Error statuses carry a message suffix, see SearchErrorStatus and
// CriticalErrorStatus.
const (
	StatusEmailFound       = "Email found"
	StatusEmailNotFound    = "Email not found"
	StatusInvalidName      = "Invalid company name"
	StatusEmptyLine        = "Empty line"
	StatusAlreadyProcessed = "Already processed"

	searchErrorPrefix   = "Email search error: "
	criticalErrorPrefix = "Critical error: "
)

// SearchErrorStatus is the status recorded when discovery fails for a company.
func SearchErrorStatus(err error) string {
	return searchErrorPrefix + err.Error()
}

// CriticalErrorStatus is the status recorded when processing a company fails
// unexpectedly.
func CriticalErrorStatus(msg string) string {
	return criticalErrorPrefix + msg
}

// LedgerRow is one persisted result.
type LedgerRow struct {
	Company       string
	Email         string
	Status        string
	TargetCountry string
}

// Found reports whether the row carries an address.
func (r LedgerRow) Found() bool {
	return r.Email != "" && r.Email != NoEmail
}

// SkipEntry is one line of the skip report.
type SkipEntry struct {
	// Index is the 1-based line number of the company in the input file.
	Index   int
	Company string
	Reason  string
}

// Error status categories, as reported by StatusCategory.
const (
	CategorySearchError   = "Email search error"
	CategoryCriticalError = "Critical error"
)

// StatusCategory groups a status for reporting: error statuses lose their
// message, every other status is its own category.
func StatusCategory(status string) string {
	switch {
	case strings.HasPrefix(status, searchErrorPrefix):
		return CategorySearchError
	case strings.HasPrefix(status, criticalErrorPrefix):
		return CategoryCriticalError
	default:
		return status
	}
}
