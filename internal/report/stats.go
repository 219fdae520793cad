package report

import (
	"sort"

	"github.com/nao1215/emailscout/internal/model"
)

// UnknownCountry labels rows without a target country.
const UnknownCountry = "(unknown)"

// Count is a labelled number.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountryCount summarises the rows of one target country.
type CountryCount struct {
	Country string `json:"country"`
	Total   int    `json:"total"`
	Found   int    `json:"found"`
}

// Stats summarises a ledger.
type Stats struct {
	Total      int            `json:"total"`
	Found      int            `json:"found"`
	ByStatus   []Count        `json:"by_status"`
	ByCountry  []CountryCount `json:"by_country"`
	Duplicates []string       `json:"duplicates"`
}

// statusOrder fixes the order of the well-known status categories.
var statusOrder = []string{
	model.StatusEmailFound,
	model.StatusEmailNotFound,
	model.StatusInvalidName,
	model.StatusEmptyLine,
	model.StatusAlreadyProcessed,
	model.CategorySearchError,
	model.CategoryCriticalError,
}

// NewStats computes statistics over ledger rows.
func NewStats(rows []model.LedgerRow, duplicates []string) *Stats {
	s := &Stats{
		Total:      len(rows),
		Duplicates: duplicates,
	}

	statuses := make(map[string]int)
	countries := make(map[string]*CountryCount)
	for _, r := range rows {
		statuses[model.StatusCategory(r.Status)]++

		country := r.TargetCountry
		if country == "" {
			country = UnknownCountry
		}
		c, ok := countries[country]
		if !ok {
			c = &CountryCount{Country: country}
			countries[country] = c
		}
		c.Total++
		if r.Found() {
			c.Found++
			s.Found++
		}
	}

	s.ByStatus = orderedCounts(statuses)
	for _, c := range countries {
		s.ByCountry = append(s.ByCountry, *c)
	}
	sort.Slice(s.ByCountry, func(i, j int) bool {
		return s.ByCountry[i].Country < s.ByCountry[j].Country
	})
	return s
}

// FoundRate returns the share of rows with an address, in percent.
func (s *Stats) FoundRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Found) * 100 / float64(s.Total)
}

// orderedCounts lists the well-known categories first, then any others by
// name. Zero counts are omitted.
func orderedCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	known := make(map[string]bool, len(statusOrder))
	for _, label := range statusOrder {
		known[label] = true
		if n := counts[label]; n > 0 {
			out = append(out, Count{Label: label, Count: n})
		}
	}

	var others []string
	for label := range counts {
		if !known[label] {
			others = append(others, label)
		}
	}
	sort.Strings(others)
	for _, label := range others {
		out = append(out, Count{Label: label, Count: counts[label]})
	}
	return out
}
