// Package log builds the application's slog loggers.
//
// Every logger wraps its output handler in a SecureHandler, which masks
// values that must not end up in log files: HTTP credentials, API keys
// for search providers, proxy passwords and the user:password part of
// proxy URLs. Masking applies at every level, including debug output.
//
// Usage:
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	logger.Debug("proxy configured", "proxy", "socks5://user:pw@127.0.0.1:9050")
//	// proxy=socks5://***REDACTED***@127.0.0.1:9050
package log
