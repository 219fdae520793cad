// Package selector picks one address out of the candidates found on a page.
package selector

import (
	"strings"

	"github.com/nao1215/emailscout/internal/model"
)

// Select returns the chosen candidate and whether one was chosen.
//
// With preferNameMatch set, the first candidate whose address contains any
// lower-cased token of the cleaned company name wins. Otherwise, or when no
// candidate matches, the first candidate wins. Matching is plain substring
// containment, so short tokens like "ag" can match unrelated addresses.
func Select(cands []model.EmailCandidate, cleanName string, preferNameMatch bool) (model.EmailCandidate, bool) {
	if len(cands) == 0 {
		return model.EmailCandidate{}, false
	}
	if !preferNameMatch {
		return cands[0], true
	}

	tokens := model.NameTokens(cleanName)
	for _, c := range cands {
		for _, tok := range tokens {
			if strings.Contains(c.Address, tok) {
				return c, true
			}
		}
	}
	return cands[0], true
}
