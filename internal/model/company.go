package model

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinCompanyNameLength is the shortest input name, in characters, that is
// searched.
const MinCompanyNameLength = 2

// ErrInvalidCompanyName is returned when an input name is too short to
// produce meaningful search queries.
var ErrInvalidCompanyName = errors.New("invalid company name")

var (
	// disallowedNameChars matches everything except letters, digits,
	// whitespace, '+', '-' and '&'.
	disallowedNameChars = regexp.MustCompile(`[^a-zA-Z0-9\s+\-&]`)

	// whitespaceRun matches one or more whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CompanyRecord is one line of the input list.
// It is immutable once read.
type CompanyRecord struct {
	// Index is the 1-based line number in the input file.
	Index int

	// Name is the raw line with surrounding whitespace removed.
	Name string

	// TargetCountry is derived from the input file name.
	TargetCountry string
}

// IsEmpty reports whether the input line carried no name.
func (r CompanyRecord) IsEmpty() bool {
	return strings.TrimSpace(r.Name) == ""
}

// CleanName normalizes a raw company name for searching.
// Every character other than ASCII letters, digits, whitespace, '+', '-' and
// '&' becomes a space, whitespace runs collapse to one space, and the result
// is trimmed. CleanName(CleanName(s)) == CleanName(s).
func CleanName(raw string) string {
	cleaned := disallowedNameChars.ReplaceAllString(raw, " ")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// SearchName returns the name used in search queries: CleanName(raw), or
// the trimmed raw name with whitespace collapsed when cleaning leaves
// nothing (names written entirely in non-Latin scripts).
func SearchName(raw string) string {
	if clean := CleanName(raw); clean != "" {
		return clean
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

// ValidateName checks that the input name has at least
// MinCompanyNameLength characters, counted in runes on the trimmed raw name
// before cleaning, and at least one letter or digit in any script.
func ValidateName(raw string) error {
	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) < MinCompanyNameLength {
		return ErrInvalidCompanyName
	}
	if strings.IndexFunc(raw, isLetterOrDigit) < 0 {
		return ErrInvalidCompanyName
	}
	return nil
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NameTokens returns the lower-cased whitespace-separated tokens of a
// cleaned company name.
func NameTokens(clean string) []string {
	return strings.Fields(strings.ToLower(clean))
}

// TargetCountryFromPath derives the target country label from the input
// file's base name: extension stripped, first letter upper-cased, the rest
// lower-cased ("almanya.txt" becomes "Almanya").
func TargetCountryFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return ""
	}
	lower := cases.Lower(language.Und).String(name)
	first, size := utf8.DecodeRuneInString(lower)
	return cases.Upper(language.Und).String(string(first)) + lower[size:]
}
