package impersonate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/smnsjas/go-impersonate/token"
)

type outcome[T any] struct {
	value    T
	err      error
	panicked bool
	panicVal any
}

// execute runs on its own goroutine. It keeps the goroutine locked to one
// thread while impersonating and leaves it locked if the identity could not
// be restored, so the runtime kills the thread when the goroutine exits.
func execute[T any](ctx context.Context, r *Runner, h *token.Handle, runID string, fn func(context.Context) (T, error), finish func(outcome[T])) {
	runtime.LockOSThread()

	var (
		out      outcome[T]
		dirty    bool
		returned bool

		workErr, restoreErr error
	)
	defer func() {
		if !returned && !out.panicked {
			// fn called runtime.Goexit.
			out.err = errors.Join(ErrWorkExited, restoreErr)
		}
		if !dirty {
			runtime.UnlockOSThread()
		}
		finish(out)
	}()

	borrowErr := h.Borrow(func(raw token.Raw) error {
		restore, err := r.switcher.Impersonate(raw)
		if err != nil {
			return fmt.Errorf("impersonate: %w", err)
		}
		dirty = true
		start := time.Now()
		r.logger.Debug("impersonation started", "runID", runID)

		func() {
			defer func() {
				if v := recover(); v != nil {
					out.panicked, out.panicVal = true, v
				}
				if err := restore(); err != nil {
					restoreErr = &RestoreError{RunID: runID, Err: err}
					r.logger.Error("restore identity failed, discarding thread",
						"runID", runID, "error", err)
					return
				}
				dirty = false
				r.logger.Debug("impersonation ended", "runID", runID, "duration", time.Since(start))
			}()
			out.value, workErr = fn(withFrame(ctx, frame{runner: r, handle: h}))
		}()
		return nil
	})

	returned = true
	if borrowErr != nil {
		out.err = borrowErr
		return
	}
	out.err = workErr
	if restoreErr != nil {
		out.err = errors.Join(workErr, restoreErr)
	}
}
