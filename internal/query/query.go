// Package query builds the ordered search queries used to discover a
// company's contact address.
package query

import (
	"fmt"
	"strings"
)

// Phase identifies one of the two query phases.
type Phase int

const (
	// PhaseTargeted holds the contact-page oriented queries tried first.
	PhaseTargeted Phase = iota + 1

	// PhaseGeneral holds the broader queries tried when the targeted phase
	// yields nothing.
	PhaseGeneral
)

// String returns the phase label used in logs and metrics.
func (p Phase) String() string {
	switch p {
	case PhaseTargeted:
		return "targeted"
	case PhaseGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// DefaultSecondaryTLD is the country TLD used for the second site: query.
const DefaultSecondaryTLD = "de"

// Plan is the ordered query list for one company.
type Plan struct {
	Targeted []string
	General  []string
}

// Queries returns the queries of the given phase.
func (p Plan) Queries(phase Phase) []string {
	switch phase {
	case PhaseTargeted:
		return p.Targeted
	case PhaseGeneral:
		return p.General
	default:
		return nil
	}
}

// Build returns the query plan for a cleaned company name.
// An empty secondaryTLD falls back to DefaultSecondaryTLD.
func Build(clean, secondaryTLD string) Plan {
	if secondaryTLD == "" {
		secondaryTLD = DefaultSecondaryTLD
	}
	secondaryTLD = strings.TrimPrefix(secondaryTLD, ".")
	slug := Slug(clean)

	return Plan{
		Targeted: []string{
			clean + " contact email",
			clean + " kontakt email",
			clean + " impressum",
			clean + " about us",
			fmt.Sprintf("site:%s.com contact", slug),
			fmt.Sprintf("site:%s.%s contact", slug, secondaryTLD),
		},
		General: []string{
			clean + " email",
			clean + " mail",
			clean + " info@",
			clean + " contact@",
		},
	}
}

// Slug is the lower-cased name with all spaces removed, used as a domain
// guess in site: queries.
func Slug(clean string) string {
	return strings.ReplaceAll(strings.ToLower(clean), " ", "")
}
