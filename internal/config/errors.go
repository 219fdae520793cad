package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrUnknownProvider is returned for a search provider other than
	// duckduckgo or google.
	ErrUnknownProvider = errors.New("unknown search provider: use duckduckgo or google")

	// ErrInvalidMaxAttempts is returned when the attempt count is not positive.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidCooldown is returned when the rate-limit cool-down is negative.
	ErrInvalidCooldown = errors.New("invalid cooldown: must be non-negative")

	// ErrInvalidPacing is returned when the query pacing is negative.
	ErrInvalidPacing = errors.New("invalid pacing: must be non-negative")

	// ErrInvalidResultCount is returned when a per-query result count is not
	// positive.
	ErrInvalidResultCount = errors.New("invalid result count: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidDelay is returned when the per-company delay is negative.
	// Use 0 to disable the delay.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidLedgerPath is returned when the ledger extension names no
	// supported backend.
	ErrInvalidLedgerPath = errors.New("invalid ledger path: use a .xlsx, .db or .sqlite file")

	// ErrEmptyCheckpointPath is returned when no checkpoint file is set.
	ErrEmptyCheckpointPath = errors.New("checkpoint path must not be empty")

	// ErrInvalidLogFormat is returned for log formats other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: use text or json")
)
