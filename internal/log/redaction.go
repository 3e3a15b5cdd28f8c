package log

import (
	"context"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// defaultSensitiveKeys are substrings of attribute keys whose values never
// reach the output. Matching is case-insensitive.
var defaultSensitiveKeys = []string{
	"password",
	"passwd",
	"pass",
	"secret",
	"pin",
	"cred",
	"key",
	"hash",
	"token",
	"auth",
	"ticket",
}

// RedactingHandler is a slog.Handler that redacts attributes whose keys look
// like they hold logon secrets.
type RedactingHandler struct {
	next slog.Handler
	keys []string
}

// NewRedactingHandler wraps next. extraKeys are added to the default set.
func NewRedactingHandler(next slog.Handler, extraKeys ...string) *RedactingHandler {
	keys := make([]string, 0, len(defaultSensitiveKeys)+len(extraKeys))
	keys = append(keys, defaultSensitiveKeys...)
	for _, k := range extraKeys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keys = append(keys, k)
		}
	}
	return &RedactingHandler{next: next, keys: keys}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.redact(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean), keys: h.keys}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), keys: h.keys}
}

func (h *RedactingHandler) sensitive(key string) bool {
	key = strings.ToLower(key)
	for _, k := range h.keys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

func (h *RedactingHandler) redact(a slog.Attr) slog.Attr {
	if h.sensitive(a.Key) {
		return slog.String(a.Key, redacted)
	}

	// LogValuers such as logon.Credentials may expand into groups.
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		return slog.Attr{Key: a.Key, Value: v}
	}
	group := v.Group()
	args := make([]any, len(group))
	for i, g := range group {
		args[i] = h.redact(g)
	}
	return slog.Group(a.Key, args...)
}
