package config

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "emailscout"

	// DefaultLedgerPath is the result ledger. The extension selects the
	// backend: .xlsx for an Excel workbook, .db or .sqlite for SQLite.
	DefaultLedgerPath = "email_results.xlsx"

	// DefaultCheckpointPath holds the name of the last processed company.
	DefaultCheckpointPath = "progress.txt"

	// DefaultSkipReportPath lists skipped, invalid and failed companies.
	DefaultSkipReportPath = "skipped_companies.txt"

	// DefaultProvider is the search engine queried for candidate pages.
	// DuckDuckGo's HTML endpoint tolerates unattended querying far better
	// than Google.
	DefaultProvider = "duckduckgo"

	// DefaultMaxAttempts is the number of tries per query when the search
	// engine rate limits us.
	DefaultMaxAttempts = 3

	// DefaultCooldown is the wait after a rate-limited query.
	DefaultCooldown = 60 * time.Second

	// DefaultPacing is the minimum interval between two search queries.
	DefaultPacing = 2 * time.Second

	// DefaultTargetedResults is the number of results inspected per
	// targeted query.
	DefaultTargetedResults = 3

	// DefaultGeneralResults is the number of results inspected per general
	// query.
	DefaultGeneralResults = 5

	// DefaultSecondaryTLD is the country TLD tried after .com.
	DefaultSecondaryTLD = "de"

	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultUserAgent is a desktop browser string; several company sites
	// reject unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultMaxBodySize limits the page body read, 5MB.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultDelay is the pause after each company.
	DefaultDelay = 2 * time.Second

	// DefaultLogFormat is the slog output format.
	DefaultLogFormat = "text"
)

// Supported search providers.
var providers = []string{"duckduckgo", "google"}

// Supported ledger extensions.
var ledgerExtensions = []string{".xlsx", ".db", ".sqlite", ".sqlite3"}

// DefaultSocialDomains are never fetched: their pages list people, not
// company contact addresses.
func DefaultSocialDomains() []string {
	return []string{"linkedin.com", "facebook.com", "twitter.com", "instagram.com", "youtube.com"}
}

// DefaultPlaceholderDomains mark addresses found in templates and
// documentation rather than real contacts.
func DefaultPlaceholderDomains() []string {
	return []string{"example.com", "test.com"}
}

// Config holds all configuration options for emailscout.
// It is populated from defaults, the config file and CLI flags, then passed
// through the application rather than kept in global state.
type Config struct {
	// InputPath is the company list. When empty the user picks a file from
	// the working directory.
	InputPath string

	// LedgerPath is the result ledger.
	LedgerPath string

	// CheckpointPath is the resume checkpoint.
	CheckpointPath string

	// SkipReportPath is the skip report written at the end of a run.
	SkipReportPath string

	// SummaryPath, when set, receives a Markdown report of the run.
	SummaryPath string

	// MetricsFile, when set, receives Prometheus metrics in text format.
	MetricsFile string

	// Provider names the search engine: "duckduckgo" or "google".
	Provider string

	// SearchURL overrides the provider endpoint, e.g. for a mirror.
	SearchURL string

	// MaxAttempts is the number of tries per rate-limited query.
	MaxAttempts int

	// Cooldown is the wait after a rate-limited query.
	Cooldown time.Duration

	// Pacing is the minimum interval between search queries.
	Pacing time.Duration

	// TargetedResults and GeneralResults are the number of search results
	// inspected per query in each discovery phase.
	TargetedResults int
	GeneralResults  int

	// SecondaryTLD is the country TLD used by targeted queries.
	SecondaryTLD string

	// FetchTimeout bounds each HTTP request.
	FetchTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize is the maximum page size read, in bytes.
	MaxBodySize int

	// ProxyAddress is an optional SOCKS5 proxy for all requests, either
	// host:port or a socks5:// URL with optional credentials.
	ProxyAddress string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// SocialDomains are never fetched.
	SocialDomains []string

	// PlaceholderDomains reject matching addresses.
	PlaceholderDomains []string

	// Delay is the pause after each company. Zero disables it.
	Delay time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the configuration file that was loaded, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		LedgerPath:         DefaultLedgerPath,
		CheckpointPath:     DefaultCheckpointPath,
		SkipReportPath:     DefaultSkipReportPath,
		Provider:           DefaultProvider,
		MaxAttempts:        DefaultMaxAttempts,
		Cooldown:           DefaultCooldown,
		Pacing:             DefaultPacing,
		TargetedResults:    DefaultTargetedResults,
		GeneralResults:     DefaultGeneralResults,
		SecondaryTLD:       DefaultSecondaryTLD,
		FetchTimeout:       DefaultFetchTimeout,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
		Headers:            map[string]string{},
		SocialDomains:      DefaultSocialDomains(),
		PlaceholderDomains: DefaultPlaceholderDomains(),
		Delay:              DefaultDelay,
		LogFormat:          DefaultLogFormat,
	}
}

// XDGConfigDir returns the XDG config directory for emailscout.
// On Linux: ~/.config/emailscout
// On macOS: ~/Library/Application Support/emailscout
// On Windows: %APPDATA%\emailscout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if !slices.Contains(providers, strings.ToLower(c.Provider)) {
		return ErrUnknownProvider
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.Cooldown < 0 {
		return ErrInvalidCooldown
	}
	if c.Pacing < 0 {
		return ErrInvalidPacing
	}
	if c.TargetedResults <= 0 || c.GeneralResults <= 0 {
		return ErrInvalidResultCount
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if !slices.Contains(ledgerExtensions, strings.ToLower(filepath.Ext(c.LedgerPath))) {
		return ErrInvalidLedgerPath
	}
	if c.CheckpointPath == "" {
		return ErrEmptyCheckpointPath
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	return nil
}
