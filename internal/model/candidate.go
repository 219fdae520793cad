package model

// Source identifies the extraction strategy that produced a candidate.
type Source int

const (
	// SourceMailLink is an address taken from a mailto: link.
	SourceMailLink Source = iota

	// SourceLabeledRegion is an address found inside an element whose class
	// or id marks it as contact information.
	SourceLabeledRegion

	// SourcePatternMatch is an address found by scanning the visible text.
	SourcePatternMatch
)

// String returns the metric/log label of the source.
func (s Source) String() string {
	switch s {
	case SourceMailLink:
		return "mail_link"
	case SourceLabeledRegion:
		return "labeled_region"
	case SourcePatternMatch:
		return "pattern_match"
	default:
		return "unknown"
	}
}

// EmailCandidate is a validated address found on a page.
// Address is lower case, holds exactly one '@', and its domain part contains
// a dot.
type EmailCandidate struct {
	Address string
	Source  Source
}

// Addresses returns the addresses of the candidates in order.
func Addresses(cands []EmailCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Address
	}
	return out
}
