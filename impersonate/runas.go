package impersonate

import (
	"context"

	"github.com/smnsjas/go-impersonate/logon"
)

// RunAs logs c on, runs fn under the new identity and closes the token.
// A nil Acquirer uses the platform logon primitive.
func (r *Runner) RunAs(ctx context.Context, acq *logon.Acquirer, c *logon.Credentials, params logon.Params, fn func(ctx context.Context) error) error {
	_, err := CallAs(ctx, r, acq, c, params, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// CallAs logs c on, calls fn under the new identity and closes the token.
func CallAs[T any](ctx context.Context, r *Runner, acq *logon.Acquirer, c *logon.Credentials, params logon.Params, fn func(ctx context.Context) (T, error)) (T, error) {
	if r == nil {
		r = NewRunner()
	}
	if acq == nil {
		acq = logon.NewAcquirer(logon.WithLogger(r.logger))
	}

	h, err := acq.Acquire(ctx, c, params)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() {
		if err := h.Close(); err != nil {
			r.logger.Warn("close token", "account", c.String(), "error", err)
		}
	}()

	return Call(ctx, r, h, fn)
}
