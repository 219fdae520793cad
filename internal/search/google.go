package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultGoogleURL is Google's HTML search endpoint.
const DefaultGoogleURL = "https://www.google.com/search"

// Google searches Google's HTML results page.
type Google struct {
	client  *http.Client
	baseURL string
}

// NewGoogle creates a Google provider.
func NewGoogle(client *http.Client, baseURL string) *Google {
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Google{client: client, baseURL: baseURL}
}

// Name implements Provider.
func (g *Google) Name() string {
	return ProviderGoogle
}

// Search implements Provider.
func (g *Google) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en")
	if maxResults > 0 {
		params.Set("num", strconv.Itoa(maxResults))
	}

	doc, finalURL, err := fetchDocument(ctx, g.client, g.Name(), query, g.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	// Unusual traffic is redirected to the /sorry/ captcha page.
	if finalURL != nil && strings.Contains(finalURL.Path, "/sorry/") {
		return nil, errRateLimitedBy(g.Name())
	}

	anchors := doc.Find("#search a[href], #rso a[href]")
	if anchors.Length() == 0 {
		anchors = doc.Find("a[href]")
	}

	results := newResultList(maxResults)
	anchors.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		target, ok := decodeGoogleHref(href)
		if !ok {
			return true
		}
		return results.add(target)
	})
	return results.urls, nil
}

// decodeGoogleHref resolves "/url?q=" redirect links and drops links back
// to Google itself.
func decodeGoogleHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return "", false
		}
		href = u.Query().Get("q")
		if href == "" {
			href = u.Query().Get("url")
		}
	}
	if !isWebURL(href) {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if strings.HasPrefix(host, "google.") || strings.Contains(host, ".google.") {
		return "", false
	}
	return href, true
}

// errRateLimitedBy wraps ErrRateLimited with the provider name.
func errRateLimitedBy(provider string) error {
	return fmt.Errorf("%s: %w", provider, ErrRateLimited)
}
