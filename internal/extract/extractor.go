package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/emailscout/internal/model"
)

// regionKeywords mark elements whose text is treated as contact information
// when they appear in the element's class or id.
var regionKeywords = []string{"contact", "email", "impressum"}

var (
	// plainAddress matches local@domain.tld.
	plainAddress = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// mailtoAddress matches addresses written with a mailto: prefix.
	mailtoAddress = regexp.MustCompile(`(?i)mailto:([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)

	// obfuscatedAddress matches "local [at] domain.tld" and "local(at)domain.tld".
	obfuscatedAddress = regexp.MustCompile(`(?i)([A-Za-z0-9._%+\-]+)\s*[\[(]\s*at\s*[\])]\s*([A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)
)

// Extractor applies the structural and pattern strategies.
// It holds no per-page state and is safe for concurrent use.
type Extractor struct {
	placeholders []string
}

// New creates an Extractor that rejects addresses containing any of the
// given placeholder domains. A nil slice uses DefaultPlaceholderDomains.
func New(placeholderDomains []string) *Extractor {
	if placeholderDomains == nil {
		placeholderDomains = DefaultPlaceholderDomains
	}
	placeholders := make([]string, 0, len(placeholderDomains))
	for _, d := range placeholderDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			placeholders = append(placeholders, d)
		}
	}
	return &Extractor{placeholders: placeholders}
}

// ParseDocument parses an HTML body for extraction.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Pattern returns every valid address found in text, in expression order
// (plain, mailto:, obfuscated) and match order within each expression.
// Duplicates are dropped.
func (e *Extractor) Pattern(text string) []model.EmailCandidate {
	seen := make(map[string]bool)
	var out []model.EmailCandidate

	add := func(raw string) {
		addr, ok := e.Validate(raw)
		if !ok || seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, model.EmailCandidate{Address: addr, Source: model.SourcePatternMatch})
	}

	for _, m := range plainAddress.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range mailtoAddress.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range obfuscatedAddress.FindAllStringSubmatch(text, -1) {
		add(m[1] + "@" + m[2])
	}
	return out
}

// FirstPattern returns the first valid address found in text.
func (e *Extractor) FirstPattern(text string) (model.EmailCandidate, bool) {
	cands := e.Pattern(text)
	if len(cands) == 0 {
		return model.EmailCandidate{}, false
	}
	return cands[0], true
}

// Structural returns the deduplicated addresses found in mailto: links,
// followed by those found in labeled contact regions.
func (e *Extractor) Structural(doc *goquery.Document) []model.EmailCandidate {
	seen := make(map[string]bool)
	var out []model.EmailCandidate

	add := func(addr string, src model.Source) {
		if seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, model.EmailCandidate{Address: addr, Source: src})
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		for _, raw := range mailtoTargets(href) {
			if addr, ok := e.Validate(raw); ok {
				add(addr, model.SourceMailLink)
			}
		}
	})

	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		if !isLabeledRegion(s) {
			return
		}
		if cand, ok := e.FirstPattern(s.Text()); ok {
			add(cand.Address, model.SourceLabeledRegion)
		}
	})

	return out
}

// mailtoTargets returns the raw recipients of a mailto: href, or nil.
func mailtoTargets(href string) []string {
	lower := strings.ToLower(href)
	idx := strings.Index(lower, "mailto:")
	if idx < 0 {
		return nil
	}

	target := href[idx+len("mailto:"):]
	target, _, _ = strings.Cut(target, "?")
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}

	var out []string
	for _, part := range strings.Split(target, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isLabeledRegion reports whether the element's class or id contains one of
// the region keywords.
func isLabeledRegion(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	label := strings.ToLower(class + " " + id)
	for _, kw := range regionKeywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
