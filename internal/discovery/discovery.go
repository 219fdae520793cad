// Package discovery runs the two-phase search for one company's contact
// address.
//
// Phase one issues the targeted queries (contact pages, imprint, site:
// guesses) and accepts the first address found. Phase two runs only when
// phase one found nothing; it issues broader queries over more results and,
// among structurally extracted addresses, prefers one that contains part of
// the company name. Within a phase, queries run in order, result URLs are
// visited in rank order, and the first page that yields an address ends the
// search.
package discovery

import (
	"context"
	"log/slog"

	"github.com/nao1215/emailscout/internal/extract"
	"github.com/nao1215/emailscout/internal/fetcher"
	"github.com/nao1215/emailscout/internal/metrics"
	"github.com/nao1215/emailscout/internal/model"
	"github.com/nao1215/emailscout/internal/query"
	"github.com/nao1215/emailscout/internal/selector"
)

// Default result counts per phase.
const (
	DefaultTargetedResults = 3
	DefaultGeneralResults  = 5
)

// Searcher returns ranked result URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
}

// PageFetcher retrieves a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (fetcher.Page, error)
}

// Result is the outcome of a discovery run.
type Result struct {
	// Found reports whether an address was discovered.
	Found bool

	// Email is the discovered address, empty when not found.
	Email string

	// Phase, Query, URL and Source describe where the address came from.
	Phase  query.Phase
	Query  string
	URL    string
	Source model.Source
}

// Discoverer finds a contact address for a company.
type Discoverer struct {
	searcher  Searcher
	fetcher   PageFetcher
	extractor *extract.Extractor
	denylist  *fetcher.Denylist

	targetedResults int
	generalResults  int
	secondaryTLD    string

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithExtractor sets the extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(d *Discoverer) {
		d.extractor = e
	}
}

// WithDenylist sets the URL denylist.
func WithDenylist(list *fetcher.Denylist) Option {
	return func(d *Discoverer) {
		d.denylist = list
	}
}

// WithResultCounts sets how many results each phase requests.
func WithResultCounts(targeted, general int) Option {
	return func(d *Discoverer) {
		if targeted > 0 {
			d.targetedResults = targeted
		}
		if general > 0 {
			d.generalResults = general
		}
	}
}

// WithSecondaryTLD sets the country TLD used in the second site: query.
func WithSecondaryTLD(tld string) Option {
	return func(d *Discoverer) {
		d.secondaryTLD = tld
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Discoverer) {
		d.metrics = m
	}
}

// New creates a Discoverer.
func New(s Searcher, f PageFetcher, opts ...Option) *Discoverer {
	d := &Discoverer{
		searcher:        s,
		fetcher:         f,
		targetedResults: DefaultTargetedResults,
		generalResults:  DefaultGeneralResults,
		secondaryTLD:    query.DefaultSecondaryTLD,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.extractor == nil {
		d.extractor = extract.New(nil)
	}
	if d.denylist == nil {
		d.denylist = fetcher.NewDenylist(nil)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Discover searches for the contact address of company.
//
// Search failures (including exhausted rate-limit retries) and fetch
// failures only skip the affected query or URL. The returned error is
// non-nil only when ctx is done.
func (d *Discoverer) Discover(ctx context.Context, company string) (Result, error) {
	clean := model.SearchName(company)
	plan := query.Build(clean, d.secondaryTLD)

	phases := []struct {
		phase      query.Phase
		maxResults int
		preferName bool
	}{
		{phase: query.PhaseTargeted, maxResults: d.targetedResults, preferName: false},
		{phase: query.PhaseGeneral, maxResults: d.generalResults, preferName: true},
	}

	for _, p := range phases {
		res, err := d.runPhase(ctx, p.phase, plan.Queries(p.phase), clean, p.maxResults, p.preferName)
		if err != nil {
			return Result{}, err
		}
		if res.Found {
			d.metrics.EmailFound(res.Phase.String(), res.Source.String())
			d.logger.Debug("email discovered",
				"company", clean,
				"email", res.Email,
				"phase", res.Phase.String(),
				"source", res.Source.String(),
				"url", res.URL,
			)
			return res, nil
		}
		d.logger.Debug("phase yielded no email", "company", clean, "phase", p.phase.String())
	}
	return Result{}, nil
}

// runPhase tries each query of a phase in order.
func (d *Discoverer) runPhase(ctx context.Context, phase query.Phase, queries []string, clean string, maxResults int, preferName bool) (Result, error) {
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		urls, err := d.searcher.Search(ctx, q, maxResults)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			d.logger.Warn("search failed, treating as no results", "query", q, "error", err)
			continue
		}

		for _, u := range urls {
			if d.denylist.Blocked(u) {
				d.metrics.DeniedURL()
				d.logger.Debug("skipping denylisted URL", "url", u)
				continue
			}

			cand, ok, err := d.inspect(ctx, u, clean, preferName)
			if err != nil {
				return Result{}, err
			}
			if ok {
				return Result{
					Found:  true,
					Email:  cand.Address,
					Phase:  phase,
					Query:  q,
					URL:    u,
					Source: cand.Source,
				}, nil
			}
		}
	}
	return Result{}, nil
}

// inspect fetches one URL and extracts a candidate from it.
// Structural extraction wins over the visible-text pattern fallback.
func (d *Discoverer) inspect(ctx context.Context, rawURL, clean string, preferName bool) (model.EmailCandidate, bool, error) {
	page, err := d.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.EmailCandidate{}, false, ctxErr
		}
		d.logger.Debug("skipping unreachable URL", "url", rawURL, "error", err)
		return model.EmailCandidate{}, false, nil
	}

	doc, err := extract.ParseDocument(page.Body)
	if err != nil {
		d.logger.Debug("skipping unparsable page", "url", rawURL, "error", err)
		return model.EmailCandidate{}, false, nil
	}

	if cand, ok := selector.Select(d.extractor.Structural(doc), clean, preferName); ok {
		return cand, true, nil
	}
	cand, ok := d.extractor.FirstPattern(extract.VisibleText(doc))
	return cand, ok, nil
}
