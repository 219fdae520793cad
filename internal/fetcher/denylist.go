package fetcher

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DefaultSocialDomains are social networks whose pages never carry a usable
// company contact address.
var DefaultSocialDomains = []string{
	"linkedin.com",
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"youtube.com",
}

// Denylist decides which result URLs are never fetched.
type Denylist struct {
	domains map[string]struct{}
}

// NewDenylist creates a Denylist. A nil slice uses DefaultSocialDomains.
func NewDenylist(domains []string) *Denylist {
	if domains == nil {
		domains = DefaultSocialDomains
	}
	d := &Denylist{domains: make(map[string]struct{}, len(domains))}
	for _, raw := range domains {
		value := strings.TrimPrefix(strings.TrimSpace(strings.ToLower(raw)), "*.")
		value = strings.TrimPrefix(value, ".")
		if value != "" {
			d.domains[value] = struct{}{}
		}
	}
	return d
}

// Blocked reports whether rawURL points at a denylisted domain or one of its
// subdomains. URLs without a parsable host fall back to a substring check.
func (d *Denylist) Blocked(rawURL string) bool {
	if d == nil || len(d.domains) == 0 {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		lower := strings.ToLower(rawURL)
		for domain := range d.domains {
			if strings.Contains(lower, domain) {
				return true
			}
		}
		return false
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if _, ok := d.domains[host]; ok {
		return true
	}
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		if _, ok := d.domains[registrable]; ok {
			return true
		}
	}
	for domain := range d.domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
