package search

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when a provider signals rate limiting
// (HTTP 429 or its interstitial challenge page). The Client retries on it.
var ErrRateLimited = errors.New("search provider rate limited the request")

// Error describes a non-retryable provider failure.
type Error struct {
	// Provider is the provider name.
	Provider string

	// Query is the query that failed.
	Query string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s search %q failed with status %d: %v", e.Provider, e.Query, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s search %q failed: %v", e.Provider, e.Query, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
