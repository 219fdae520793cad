// Package search queries a web search provider for candidate URLs.
//
// Providers return fully materialized, bounded result lists. The Client in
// front of them paces successive calls and retries on rate limiting with a
// fixed cool-down.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Provider names accepted by NewProvider.
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderGoogle     = "google"
)

// maxResponseBytes bounds how much of a results page is read.
const maxResponseBytes = 4 * 1024 * 1024

// Provider performs one web search.
// Search must return the complete result list or an error, never a partial
// list: a failure while reading or parsing the page is reported as an error.
type Provider interface {
	// Name returns the provider name used in logs and metrics.
	Name() string

	// Search returns at most maxResults result URLs for query, in rank order.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
}

// NewProvider returns the named provider. An empty baseURL uses the
// provider's public endpoint.
func NewProvider(name string, client *http.Client, baseURL string) (Provider, error) {
	switch strings.ToLower(name) {
	case ProviderDuckDuckGo, "":
		return NewDuckDuckGo(client, baseURL), nil
	case ProviderGoogle:
		return NewGoogle(client, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", name)
	}
}

// fetchDocument performs a GET request and parses the response as HTML.
// It returns the document, the final request URL and the status code.
func fetchDocument(ctx context.Context, client *http.Client, provider, query, rawURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, &Error{Provider: provider, Query: query, Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, &Error{Provider: provider, Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, nil, errRateLimitedBy(provider)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, nil, &Error{
			Provider:   provider,
			Query:      query,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, &Error{Provider: provider, Query: query, StatusCode: resp.StatusCode, Err: err}
	}
	return doc, resp.Request.URL, nil
}

// isWebURL reports whether raw is an absolute http(s) URL.
func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// resultList collects unique URLs up to a limit.
type resultList struct {
	max  int
	seen map[string]bool
	urls []string
}

func newResultList(maxResults int) *resultList {
	return &resultList{max: maxResults, seen: make(map[string]bool)}
}

// add appends u if it is new. It returns false once the list is full.
func (r *resultList) add(u string) bool {
	if r.full() {
		return false
	}
	if !r.seen[u] {
		r.seen[u] = true
		r.urls = append(r.urls, u)
	}
	return !r.full()
}

func (r *resultList) full() bool {
	return r.max > 0 && len(r.urls) >= r.max
}
