package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("file defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.LedgerPath != "email_results.xlsx" {
			t.Errorf("LedgerPath = %q", cfg.LedgerPath)
		}
		if cfg.CheckpointPath != "progress.txt" {
			t.Errorf("CheckpointPath = %q", cfg.CheckpointPath)
		}
		if cfg.SkipReportPath != "skipped_companies.txt" {
			t.Errorf("SkipReportPath = %q", cfg.SkipReportPath)
		}
		if cfg.InputPath != "" {
			t.Errorf("InputPath = %q, want empty for interactive selection", cfg.InputPath)
		}
	})

	t.Run("search policy defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxAttempts != 3 {
			t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
		}
		if cfg.Cooldown != 60*time.Second {
			t.Errorf("Cooldown = %v, want 60s", cfg.Cooldown)
		}
		if cfg.Pacing != 2*time.Second {
			t.Errorf("Pacing = %v, want 2s", cfg.Pacing)
		}
		if cfg.TargetedResults != 3 || cfg.GeneralResults != 5 {
			t.Errorf("result counts = %d/%d, want 3/5", cfg.TargetedResults, cfg.GeneralResults)
		}
		if cfg.SecondaryTLD != "de" {
			t.Errorf("SecondaryTLD = %q, want de", cfg.SecondaryTLD)
		}
	})

	t.Run("fetch and run defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.FetchTimeout != 10*time.Second {
			t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
		}
		if cfg.Delay != 2*time.Second {
			t.Errorf("Delay = %v, want 2s", cfg.Delay)
		}
		if diff := cmp.Diff([]string{"linkedin.com", "facebook.com", "twitter.com", "instagram.com", "youtube.com"}, cfg.SocialDomains); diff != "" {
			t.Errorf("SocialDomains mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"example.com", "test.com"}, cfg.PlaceholderDomains); diff != "" {
			t.Errorf("PlaceholderDomains mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := NewConfig().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

// TestConfigValidate tests each validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "google provider", modify: func(c *Config) { c.Provider = "Google" }, wantErr: nil},
		{name: "unknown provider", modify: func(c *Config) { c.Provider = "bing" }, wantErr: ErrUnknownProvider},
		{name: "zero attempts", modify: func(c *Config) { c.MaxAttempts = 0 }, wantErr: ErrInvalidMaxAttempts},
		{name: "negative cooldown", modify: func(c *Config) { c.Cooldown = -time.Second }, wantErr: ErrInvalidCooldown},
		{name: "negative pacing", modify: func(c *Config) { c.Pacing = -time.Second }, wantErr: ErrInvalidPacing},
		{name: "zero pacing", modify: func(c *Config) { c.Pacing = 0 }, wantErr: nil},
		{name: "zero targeted results", modify: func(c *Config) { c.TargetedResults = 0 }, wantErr: ErrInvalidResultCount},
		{name: "zero general results", modify: func(c *Config) { c.GeneralResults = 0 }, wantErr: ErrInvalidResultCount},
		{name: "zero timeout", modify: func(c *Config) { c.FetchTimeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "zero body size", modify: func(c *Config) { c.MaxBodySize = 0 }, wantErr: ErrInvalidMaxBodySize},
		{name: "negative delay", modify: func(c *Config) { c.Delay = -time.Second }, wantErr: ErrInvalidDelay},
		{name: "zero delay", modify: func(c *Config) { c.Delay = 0 }, wantErr: nil},
		{name: "sqlite ledger", modify: func(c *Config) { c.LedgerPath = "results.sqlite" }, wantErr: nil},
		{name: "csv ledger", modify: func(c *Config) { c.LedgerPath = "results.csv" }, wantErr: ErrInvalidLedgerPath},
		{name: "empty checkpoint", modify: func(c *Config) { c.CheckpointPath = "" }, wantErr: ErrEmptyCheckpointPath},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := write(t, `
ledger: results.db
search:
  provider: google
  max_attempts: 5
  cooldown: 90s
  pacing: 0s
  secondary_tld: at
fetch:
  timeout: 15s
  proxy: socks5://127.0.0.1:9050
  headers:
    Accept-Language: de-DE
  social_domains: [xing.com]
extract:
  placeholder_domains: [example.org]
run:
  delay: 500ms
log:
  verbose: true
  format: json
`)
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.LedgerPath != "results.db" || cfg.Provider != "google" || cfg.SecondaryTLD != "at" {
			t.Errorf("string values not applied: %+v", cfg)
		}
		if cfg.MaxAttempts != 5 || cfg.Cooldown != 90*time.Second || cfg.Pacing != 0 {
			t.Errorf("search values not applied: attempts=%d cooldown=%v pacing=%v", cfg.MaxAttempts, cfg.Cooldown, cfg.Pacing)
		}
		if cfg.FetchTimeout != 15*time.Second || cfg.ProxyAddress != "socks5://127.0.0.1:9050" {
			t.Errorf("fetch values not applied: timeout=%v proxy=%q", cfg.FetchTimeout, cfg.ProxyAddress)
		}
		if cfg.Headers["Accept-Language"] != "de-DE" {
			t.Errorf("headers not applied: %v", cfg.Headers)
		}
		if diff := cmp.Diff([]string{"xing.com"}, cfg.SocialDomains); diff != "" {
			t.Errorf("SocialDomains mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"example.org"}, cfg.PlaceholderDomains); diff != "" {
			t.Errorf("PlaceholderDomains mismatch (-want +got):\n%s", diff)
		}
		if cfg.Delay != 500*time.Millisecond || !cfg.Verbose || cfg.LogFormat != "json" {
			t.Errorf("run/log values not applied: delay=%v verbose=%v format=%q", cfg.Delay, cfg.Verbose, cfg.LogFormat)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(write(t, "search:\n  provider: duckduckgo\n"))
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		cfg := NewConfig()
		cf.Apply(cfg)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("partial file changed defaults (-want +got):\n%s", diff)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, "")); err != nil {
			t.Errorf("LoadConfigFile() error = %v", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, "search:\n  provder: google\n")); err == nil {
			t.Error("LoadConfigFile() should reject unknown keys")
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(write(t, "run:\n  delay: soon\n")); err == nil {
			t.Error("LoadConfigFile() should reject invalid durations")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfigFile() error = %v, want ErrConfigNotFound", err)
		}
	})
}

// TestFindConfigFile tests explicit path lookup.
// The working directory and home lookups depend on the process environment
// and are exercised by the command tests.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("ledger: x.xlsx\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

// TestXDGConfigDir tests the XDG directory name.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("XDGConfigDir() = %q, want a directory named %q", XDGConfigDir(), AppName)
	}
}
