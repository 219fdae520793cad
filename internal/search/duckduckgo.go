package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDuckDuckGoURL is the endpoint of DuckDuckGo's HTML-only results page.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo searches the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client  *http.Client
	baseURL string
}

// NewDuckDuckGo creates a DuckDuckGo provider.
func NewDuckDuckGo(client *http.Client, baseURL string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &DuckDuckGo{client: client, baseURL: baseURL}
}

// Name implements Provider.
func (d *DuckDuckGo) Name() string {
	return ProviderDuckDuckGo
}

// Search implements Provider.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", "wt-wt")

	doc, _, err := fetchDocument(ctx, d.client, d.Name(), query, d.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	// DuckDuckGo answers bursts with a 202 bot challenge instead of a 429.
	if doc.Find(".anomaly-modal__title, #challenge-form").Length() > 0 {
		return nil, errRateLimitedBy(d.Name())
	}

	results := newResultList(maxResults)
	doc.Find("a.result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		target, ok := decodeDuckDuckGoHref(href)
		if !ok {
			return true
		}
		return results.add(target)
	})
	return results.urls, nil
}

// decodeDuckDuckGoHref resolves DuckDuckGo's "/l/?uddg=" redirect links.
func decodeDuckDuckGoHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			href = target
		}
	}
	if !isWebURL(href) {
		return "", false
	}
	return href, true
}
