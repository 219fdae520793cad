package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces sensitive values in log output.
const MaskValue = "***REDACTED***"

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,

	// Credentials
	"password":   true,
	"passwd":     true,
	"secret":     true,
	"token":      true,
	"api_key":    true,
	"apikey":     true,
	"proxy_auth": true,
	"proxy_pass": true,
	"session_id": true,
}

// sensitiveKeywords mask any key that contains them.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "private",
}

// sensitivePatterns mask whole string values.
var sensitivePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Authorization header values
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
	// Search API keys and other long opaque tokens
	regexp.MustCompile(`^[A-Za-z0-9]{32,}$`),
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),
}

// urlUserinfo matches the user:password@ part of URLs embedded in a value.
var urlUserinfo = regexp.MustCompile(`([A-Za-z][A-Za-z0-9+.\-]*://)[^/@\s]+@`)

// Options configures New.
type Options struct {
	// Verbose enables debug output; otherwise only warnings and errors
	// are logged.
	Verbose bool

	// Format is FormatText (default) or FormatJSON.
	Format string
}

// New returns a logger writing to w through a SecureHandler.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(opts.Format, FormatJSON) {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(NewSecureHandler(h))
}

// SecureHandler is a slog.Handler that masks sensitive attributes before
// passing records to the wrapped handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler wraps the default logger's
// handler.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
// The message itself is not inspected, only attributes.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized)}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		sanitized := make([]slog.Attr, len(group))
		for i, g := range group {
			sanitized[i] = sanitizeAttr(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if v, changed := sanitizeValue(a.Value.String()); changed {
			return slog.String(a.Key, v)
		}
	case slog.KindAny:
		// Errors from the HTTP client quote the request URL, proxy
		// credentials included.
		if err, ok := a.Value.Any().(error); ok {
			if v, changed := sanitizeValue(err.Error()); changed {
				return slog.String(a.Key, v)
			}
		}
		if s, ok := a.Value.Any().(fmt.Stringer); ok {
			if v, changed := sanitizeValue(s.String()); changed {
				return slog.String(a.Key, v)
			}
		}
	}
	return a
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// sanitizeValue masks a sensitive value entirely, or only the userinfo of
// URLs inside it. It reports whether anything changed.
func sanitizeValue(value string) (string, bool) {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return MaskValue, true
		}
	}
	if urlUserinfo.MatchString(value) {
		return urlUserinfo.ReplaceAllString(value, "${1}"+MaskValue+"@"), true
	}
	return value, false
}
