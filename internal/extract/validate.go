package extract

import "strings"

// DefaultPlaceholderDomains are domains that only ever appear in sample
// addresses and are never a real contact.
var DefaultPlaceholderDomains = []string{"example.com", "test.com"}

// Validate normalizes a raw match and reports whether it is a usable address.
// The address is trimmed and lower-cased; it must contain exactly one '@',
// a non-empty local part, a domain part with a dot, and none of the
// placeholder domains.
func (e *Extractor) Validate(raw string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if strings.Count(addr, "@") != 1 {
		return "", false
	}

	local, domain, _ := strings.Cut(addr, "@")
	if local == "" || !strings.Contains(domain, ".") {
		return "", false
	}

	for _, placeholder := range e.placeholders {
		if strings.Contains(addr, placeholder) {
			return "", false
		}
	}
	return addr, true
}
