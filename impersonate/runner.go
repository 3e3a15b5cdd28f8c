package impersonate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smnsjas/go-impersonate/token"
)

var (
	// ErrRestoreFailed is matched by a *RestoreError.
	ErrRestoreFailed = errors.New("impersonate: restore identity failed")

	// ErrWorkExited is returned when the work ends its goroutine with
	// runtime.Goexit instead of returning.
	ErrWorkExited = errors.New("impersonate: work exited without returning")
)

// RestoreError reports that the prior identity could not be restored after
// the work finished. The thread it ran on has been discarded.
type RestoreError struct {
	RunID string
	Err   error
}

// Error implements the error interface.
func (e *RestoreError) Error() string {
	return fmt.Sprintf("impersonate: restore identity (run %s): %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error.
func (e *RestoreError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRestoreFailed.
func (e *RestoreError) Is(target error) bool { return target == ErrRestoreFailed }

// Runner executes work under a token's identity.
//
// A Runner holds no mutable state and is safe for concurrent use.
type Runner struct {
	switcher Switcher
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSwitcher replaces the platform identity switcher.
func WithSwitcher(s Switcher) Option {
	return func(r *Runner) {
		r.switcher = s
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.switcher == nil {
		r.switcher = DefaultSwitcher()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run executes fn as the identity of h and waits for it to finish. The
// handle is not closed.
func (r *Runner) Run(ctx context.Context, h *token.Handle, fn func(ctx context.Context) error) error {
	_, err := Call(ctx, r, h, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Call executes fn as the identity of h and returns its result. A panic in
// fn is re-raised in the caller after the identity has been restored. If the
// restore itself fails after a panic, the panic is re-raised and the
// *RestoreError is reported only through the Runner's logger at Error level.
func Call[T any](ctx context.Context, r *Runner, h *token.Handle, fn func(ctx context.Context) (T, error)) (T, error) {
	return Start(ctx, r, h, fn).Wait()
}

// Start begins executing fn as the identity of h and returns without
// waiting. The identity is restored when fn returns, whenever that is.
func Start[T any](ctx context.Context, r *Runner, h *token.Handle, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := newTask[T]()
	if r == nil {
		r = NewRunner()
	}
	if h == nil {
		t.finish(outcome[T]{err: errors.New("impersonate: token handle is nil")})
		return t
	}
	if err := ctx.Err(); err != nil {
		t.finish(outcome[T]{err: err})
		return t
	}
	go execute(ctx, r, h, t.id, fn, t.finish)
	return t
}
