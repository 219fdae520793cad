package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/emailscout/internal/fetcher"
	"github.com/nao1215/emailscout/internal/model"
	"github.com/nao1215/emailscout/internal/query"
	"github.com/nao1215/emailscout/internal/search"
)

// fakeSearcher answers queries from a map and records them.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]string
	errs    map[string]error
	queries []string
	limits  []int
}

// Search implements Searcher.
func (s *fakeSearcher) Search(_ context.Context, q string, maxResults int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	s.limits = append(s.limits, maxResults)
	if err := s.errs[q]; err != nil {
		return nil, err
	}
	return s.results[q], nil
}

// fakeFetcher serves pages from a map and records fetched URLs.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched []string
}

// Fetch implements PageFetcher.
func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (fetcher.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, rawURL)
	body, ok := f.pages[rawURL]
	if !ok {
		return fetcher.Page{}, &fetcher.Error{URL: rawURL, Err: errors.New("connection refused")}
	}
	return fetcher.Page{URL: rawURL, StatusCode: 200, Body: []byte(body)}, nil
}

// TestDiscover tests the two-phase search.
func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("targeted phase returns the first structural candidate", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{results: map[string][]string{
			"Acme GmbH contact email": {"https://acme.de/kontakt"},
		}}
		f := &fakeFetcher{pages: map[string]string{
			"https://acme.de/kontakt": `<a href="mailto:press@agency.de">PR</a><a href="mailto:info@acme.de">Mail</a>`,
		}}

		res, err := New(s, f).Discover(context.Background(), "Acme GmbH")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Found || res.Email != "press@agency.de" {
			t.Errorf("unexpected result: %+v", res)
		}
		if res.Phase != query.PhaseTargeted || res.Source != model.SourceMailLink {
			t.Errorf("unexpected provenance: %+v", res)
		}
		if len(s.queries) != 1 {
			t.Errorf("expected search to stop after first success, got %v", s.queries)
		}
		if s.limits[0] != DefaultTargetedResults {
			t.Errorf("expected %d targeted results, got %d", DefaultTargetedResults, s.limits[0])
		}
	})

	t.Run("general phase prefers a candidate matching the company name", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{results: map[string][]string{
			"Acme GmbH email": {"https://directory.example.org/acme"},
		}}
		f := &fakeFetcher{pages: map[string]string{
			"https://directory.example.org/acme": `<a href="mailto:press@agency.de">PR</a><a href="mailto:hello@acme-tools.de">x</a>`,
		}}

		res, err := New(s, f).Discover(context.Background(), "Acme GmbH")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Email != "hello@acme-tools.de" || res.Phase != query.PhaseGeneral {
			t.Errorf("unexpected result: %+v", res)
		}
		if got := len(s.queries); got != 7 {
			t.Errorf("expected 6 targeted queries and 1 general query, got %d: %v", got, s.queries)
		}
		if s.limits[len(s.limits)-1] != DefaultGeneralResults {
			t.Errorf("expected %d general results, got %d", DefaultGeneralResults, s.limits[len(s.limits)-1])
		}
	})

	t.Run("falls back to pattern extraction on visible text", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{results: map[string][]string{
			"Acme impressum": {"https://acme.de/impressum"},
		}}
		f := &fakeFetcher{pages: map[string]string{
			"https://acme.de/impressum": `<p>Angaben gemäß TMG. E-Mail: office [at] acme.de</p>`,
		}}

		res, err := New(s, f).Discover(context.Background(), "Acme")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Email != "office@acme.de" || res.Source != model.SourcePatternMatch {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("denylisted URLs are never fetched and failed fetches are skipped", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{results: map[string][]string{
			"Acme contact email": {
				"https://www.linkedin.com/company/acme",
				"https://down.acme.de/",
				"https://acme.de/",
			},
		}}
		f := &fakeFetcher{pages: map[string]string{
			"https://www.linkedin.com/company/acme": `<a href="mailto:acme@linkedin.com">x</a>`,
			"https://acme.de/":                      `<footer id="contact">sales@acme.de</footer>`,
		}}

		res, err := New(s, f).Discover(context.Background(), "Acme")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Email != "sales@acme.de" || res.Source != model.SourceLabeledRegion {
			t.Errorf("unexpected result: %+v", res)
		}
		for _, u := range f.fetched {
			if u == "https://www.linkedin.com/company/acme" {
				t.Error("denylisted URL was fetched")
			}
		}
	})

	t.Run("search failures mean no results", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{errs: map[string]error{}}
		plan := query.Build("Acme", "")
		for _, q := range append(plan.Targeted, plan.General...) {
			s.errs[q] = fmt.Errorf("provider: %w", search.ErrRateLimited)
		}

		res, err := New(s, &fakeFetcher{}).Discover(context.Background(), "Acme")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Found {
			t.Errorf("expected no result, got %+v", res)
		}
		if len(s.queries) != 10 {
			t.Errorf("expected all 10 queries to be tried, got %d", len(s.queries))
		}
	})

	t.Run("cancelled context is returned", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(&fakeSearcher{}, &fakeFetcher{}).Discover(ctx, "Acme")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("name without Latin letters is searched as written", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{}
		if _, err := New(s, &fakeFetcher{}).Discover(context.Background(), " Газпром "); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s.queries) == 0 || s.queries[0] != "Газпром contact email" {
			t.Errorf("unexpected queries %v", s.queries)
		}
	})

	t.Run("custom result counts and secondary TLD", func(t *testing.T) {
		t.Parallel()

		s := &fakeSearcher{}
		d := New(s, &fakeFetcher{}, WithResultCounts(2, 4), WithSecondaryTLD("fr"))
		if _, err := d.Discover(context.Background(), "Acme"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.queries[5] != "site:acme.fr contact" {
			t.Errorf("unexpected site query %q", s.queries[5])
		}
		if s.limits[0] != 2 || s.limits[len(s.limits)-1] != 4 {
			t.Errorf("unexpected limits %v", s.limits)
		}
	})
}

// flakyProvider is rate limited a fixed number of times before answering.
type flakyProvider struct {
	failures int
	calls    int
}

// Name implements search.Provider.
func (p *flakyProvider) Name() string {
	return "flaky"
}

// Search implements search.Provider.
func (p *flakyProvider) Search(_ context.Context, _ string, _ int) ([]string, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, fmt.Errorf("flaky: %w", search.ErrRateLimited)
	}
	return []string{"https://acme.de/kontakt"}, nil
}

// TestDiscoverThroughRateLimitedSearch tests that results from the third
// attempt of a rate-limited query are used.
func TestDiscoverThroughRateLimitedSearch(t *testing.T) {
	t.Parallel()

	provider := &flakyProvider{failures: 2}
	client := search.NewClient(provider,
		search.WithPacing(0),
		search.WithCooldown(time.Millisecond),
	)
	f := &fakeFetcher{pages: map[string]string{
		"https://acme.de/kontakt": `<a href="mailto:info@acme.de">Mail</a>`,
	}}

	res, err := New(client, f).Discover(context.Background(), "Acme GmbH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Email != "info@acme.de" {
		t.Errorf("unexpected result: %+v", res)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 provider calls, got %d", provider.calls)
	}
}
