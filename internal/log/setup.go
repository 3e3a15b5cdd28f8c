// Package log builds the slog loggers used by the command-line tools.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects where log records go and how they look.
type Options struct {
	// Level is debug, info, warn or error. Empty disables logging.
	Level string

	// File, when set, receives records instead of stderr.
	File       string
	MaxSize    int64
	MaxBackups int

	JSON bool

	// RedactKeys are added to the built-in sensitive key list.
	RedactKeys []string
}

// DefaultMaxSize is used when Options.MaxSize is zero.
const DefaultMaxSize = 10 << 20

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log: invalid level %q (valid: debug, info, warn, error)", s)
}

// New returns a redacting logger for opts and the closer for its output.
// The closer is a no-op unless a file was opened.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Level == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}, nil
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		size := opts.MaxSize
		if size == 0 {
			size = DefaultMaxSize
		}
		rf, err := NewRotatingFile(opts.File, size, opts.MaxBackups)
		if err != nil {
			return nil, nil, err
		}
		w, closer = rf, rf
	}

	ho := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}
	return slog.New(NewRedactingHandler(h, opts.RedactKeys...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
