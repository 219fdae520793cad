// Package fetcher downloads candidate pages with a colly collector.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/nao1215/emailscout/internal/metrics"
)

// Default fetch settings.
const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is a desktop browser string; many company sites
	// refuse unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// ErrNonTextContent is returned for responses that are not text or HTML.
var ErrNonTextContent = errors.New("response is not text content")

// Error describes a failed page fetch. It is always recoverable: the caller
// moves on to the next URL.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Page is a fetched document.
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Options configures a Fetcher.
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int

	// Transport overrides the HTTP transport, e.g. to route through a proxy.
	Transport http.RoundTripper

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Fetcher retrieves pages. It is safe for concurrent use.
type Fetcher struct {
	base    *colly.Collector
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a Fetcher. Zero option values use the package defaults.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	base := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.MaxBodySize(opts.MaxBodySize),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	if opts.Transport != nil {
		base.WithTransport(opts.Transport)
	}
	base.SetRequestTimeout(opts.Timeout)

	return &Fetcher{
		base:    base,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Fetch retrieves rawURL. Error responses (4xx/5xx) are still returned as
// pages because many sites serve their contact details on custom error
// pages. Transport failures, timeouts and non-text content return *Error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	page, err := f.fetch(ctx, rawURL)
	f.metrics.PageFetched(err)
	if err != nil {
		f.logger.Debug("fetch failed", "url", rawURL, "error", err)
		return Page{}, err
	}
	f.logger.Debug("fetched page",
		"url", rawURL,
		"status", page.StatusCode,
		"bytes", len(page.Body),
	)
	return page, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	collector := f.base.Clone()
	collector.Context = ctx

	var (
		once   sync.Once
		page   Page
		result error
	)
	finish := func(p Page, err error) {
		once.Do(func() {
			page, result = p, err
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		contentType := r.Headers.Get("Content-Type")
		if !isTextContent(contentType) {
			finish(Page{}, &Error{URL: rawURL, StatusCode: r.StatusCode, Err: ErrNonTextContent})
			return
		}
		finish(Page{
			URL:         rawURL,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: contentType,
			Body:        append([]byte{}, r.Body...),
		}, nil)
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		finish(Page{}, &Error{URL: rawURL, StatusCode: status, Err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		finish(Page{}, &Error{URL: rawURL, Err: err})
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if result == nil && page.URL == "" {
		return Page{}, &Error{URL: rawURL, Err: errors.New("fetch produced no response")}
	}
	return page, result
}

// isTextContent reports whether a Content-Type header denotes text.
// A missing header is accepted.
func isTextContent(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/xhtml+xml" ||
		mediaType == "application/xml"
}
