package config

import "time"

// File represents the structure of the .emailscout configuration file.
// Unset fields leave the corresponding Config value untouched.
type File struct {
	Input      string `yaml:"input,omitempty"`
	Ledger     string `yaml:"ledger,omitempty"`
	Checkpoint string `yaml:"checkpoint,omitempty"`
	SkipReport string `yaml:"skip_report,omitempty"`
	Summary    string `yaml:"summary,omitempty"`
	Metrics    string `yaml:"metrics_file,omitempty"`

	Search  SearchSection  `yaml:"search,omitempty"`
	Fetch   FetchSection   `yaml:"fetch,omitempty"`
	Extract ExtractSection `yaml:"extract,omitempty"`
	Run     RunSection     `yaml:"run,omitempty"`
	Log     LogSection     `yaml:"log,omitempty"`
}

// SearchSection configures the search client.
type SearchSection struct {
	Provider        string         `yaml:"provider,omitempty"`
	BaseURL         string         `yaml:"base_url,omitempty"`
	MaxAttempts     *int           `yaml:"max_attempts,omitempty"`
	Cooldown        *time.Duration `yaml:"cooldown,omitempty"`
	Pacing          *time.Duration `yaml:"pacing,omitempty"`
	TargetedResults *int           `yaml:"targeted_results,omitempty"`
	GeneralResults  *int           `yaml:"general_results,omitempty"`
	SecondaryTLD    string         `yaml:"secondary_tld,omitempty"`
}

// FetchSection configures page fetching.
type FetchSection struct {
	Timeout       *time.Duration    `yaml:"timeout,omitempty"`
	UserAgent     string            `yaml:"user_agent,omitempty"`
	MaxBodySize   *int              `yaml:"max_body_size,omitempty"`
	Proxy         string            `yaml:"proxy,omitempty"`
	Headers       map[string]string `yaml:"headers,omitempty"`
	SocialDomains []string          `yaml:"social_domains,omitempty"`
}

// ExtractSection configures address validation.
type ExtractSection struct {
	PlaceholderDomains []string `yaml:"placeholder_domains,omitempty"`
}

// RunSection configures the company loop.
type RunSection struct {
	Delay *time.Duration `yaml:"delay,omitempty"`
}

// LogSection configures logging.
type LogSection struct {
	Verbose *bool  `yaml:"verbose,omitempty"`
	Format  string `yaml:"format,omitempty"`
}

// Apply overlays the values set in the file onto cfg.
// Header maps are merged, with file values winning; domain lists replace
// the defaults.
func (f *File) Apply(cfg *Config) {
	setString(&cfg.InputPath, f.Input)
	setString(&cfg.LedgerPath, f.Ledger)
	setString(&cfg.CheckpointPath, f.Checkpoint)
	setString(&cfg.SkipReportPath, f.SkipReport)
	setString(&cfg.SummaryPath, f.Summary)
	setString(&cfg.MetricsFile, f.Metrics)

	setString(&cfg.Provider, f.Search.Provider)
	setString(&cfg.SearchURL, f.Search.BaseURL)
	setValue(&cfg.MaxAttempts, f.Search.MaxAttempts)
	setValue(&cfg.Cooldown, f.Search.Cooldown)
	setValue(&cfg.Pacing, f.Search.Pacing)
	setValue(&cfg.TargetedResults, f.Search.TargetedResults)
	setValue(&cfg.GeneralResults, f.Search.GeneralResults)
	setString(&cfg.SecondaryTLD, f.Search.SecondaryTLD)

	setValue(&cfg.FetchTimeout, f.Fetch.Timeout)
	setString(&cfg.UserAgent, f.Fetch.UserAgent)
	setValue(&cfg.MaxBodySize, f.Fetch.MaxBodySize)
	setString(&cfg.ProxyAddress, f.Fetch.Proxy)
	if len(f.Fetch.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Fetch.Headers))
		}
		for k, v := range f.Fetch.Headers {
			cfg.Headers[k] = v
		}
	}
	if len(f.Fetch.SocialDomains) > 0 {
		cfg.SocialDomains = append([]string(nil), f.Fetch.SocialDomains...)
	}

	if len(f.Extract.PlaceholderDomains) > 0 {
		cfg.PlaceholderDomains = append([]string(nil), f.Extract.PlaceholderDomains...)
	}

	setValue(&cfg.Delay, f.Run.Delay)

	setValue(&cfg.Verbose, f.Log.Verbose)
	setString(&cfg.LogFormat, f.Log.Format)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
