package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are never written.
// The Gemini client and the env loader both pass credentials around under
// these names.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"x-goog-api-key":      true,
	"x-api-key":           true,
	"proxy-authorization": true,
	"cookie":              true,

	"api_key":        true,
	"apikey":         true,
	"api-key":        true,
	"gemini_api_key": true,
	"google_api_key": true,
	"access_token":   true,
	"refresh_token":  true,
	"password":       true,
	"secret":         true,
	"token":          true,
	"credentials":    true,
}

// sensitivePatterns match values that look like credentials no matter which
// key they were logged under.
var sensitivePatterns = []*regexp.Regexp{
	// Google API keys (Gemini API, Custom Search, Maps).
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),

	// OAuth access tokens issued by Google.
	regexp.MustCompile(`ya29\.[0-9A-Za-z_-]+`),

	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks credential-looking attributes
// before they reach the underlying handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, maskValue(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes, masked.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	// Errors from the genai client sometimes echo the request URL, which
	// carries the key as a query parameter.
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, maskValue(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			masked := maskValue(err.Error())
			if masked != err.Error() {
				return slog.String(a.Key, masked)
			}
		}
	default:
	}
	return a
}

// containsSensitiveKeyword reports whether key contains a credential word.
// The bare word "key" is excluded so that "keyword" and "primary_key" pass.
func containsSensitiveKeyword(key string) bool {
	sensitiveKeywords := []string{
		"password", "secret", "token", "credential", "apikey", "api_key",
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// maskValue returns MaskValue for values that are entirely a credential and
// masks embedded credentials in longer strings.
func maskValue(value string) string {
	for _, pattern := range sensitivePatterns {
		loc := pattern.FindStringIndex(value)
		if loc == nil {
			continue
		}
		if loc[0] == 0 && loc[1] == len(value) {
			return MaskValue
		}
		value = pattern.ReplaceAllString(value, MaskValue)
	}
	return value
}

// NewSecureLogger creates a text logger that masks credentials.
// verbose switches the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, used by the
// watch command when its output is collected by a log shipper.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
