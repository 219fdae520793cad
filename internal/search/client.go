package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/emailscout/internal/metrics"
)

// Default retry and pacing policy.
const (
	// DefaultMaxAttempts is the number of provider calls made for one query
	// before a rate-limit error is surfaced.
	DefaultMaxAttempts = 3

	// DefaultCooldown is the pause after a rate-limit response.
	DefaultCooldown = 60 * time.Second

	// DefaultPacing is the minimum spacing between successive provider calls.
	DefaultPacing = 2 * time.Second
)

// Client wraps a Provider with pacing and rate-limit retries.
// It is not safe for concurrent use; the pipeline issues one query at a time.
type Client struct {
	provider    Provider
	limiter     *rate.Limiter
	maxAttempts int
	cooldown    time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics

	// sleep pauses for the cool-down; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithMaxAttempts sets the number of attempts per query. Values below 1
// are treated as 1.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = max(1, n)
	}
}

// WithCooldown sets the pause after a rate-limit response.
func WithCooldown(d time.Duration) Option {
	return func(c *Client) {
		c.cooldown = d
	}
}

// WithPacing sets the minimum spacing between provider calls.
// Zero or negative disables pacing.
func WithPacing(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = newPacingLimiter(d)
	}
}

// NewClient creates a Client for the provider with the default policy.
func NewClient(provider Provider, opts ...Option) *Client {
	c := &Client{
		provider:    provider,
		limiter:     newPacingLimiter(DefaultPacing),
		maxAttempts: DefaultMaxAttempts,
		cooldown:    DefaultCooldown,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// newPacingLimiter allows one call per interval with no bursting.
func newPacingLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// ProviderName returns the wrapped provider's name.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Search runs query against the provider.
//
// Every provider call waits for the pacing limiter first. When the provider
// reports ErrRateLimited the client sleeps for the cool-down and tries again,
// up to the configured number of attempts; the final rate-limit error is
// returned wrapped. Any other error is returned immediately.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		results, err := c.provider.Search(ctx, query, maxResults)
		c.metrics.SearchQuery(c.provider.Name(), err)
		if err == nil {
			c.logger.Debug("search completed",
				"provider", c.provider.Name(),
				"query", query,
				"results", len(results),
				"attempt", attempt,
			)
			return results, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}

		c.metrics.RateLimited()
		lastErr = err
		if attempt == c.maxAttempts {
			break
		}

		c.logger.Warn("search rate limited, cooling down",
			"provider", c.provider.Name(),
			"query", query,
			"attempt", attempt,
			"cooldown", c.cooldown,
		)
		if err := c.sleep(ctx, c.cooldown); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxAttempts, lastErr)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
