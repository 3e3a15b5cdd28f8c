package impersonate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/smnsjas/go-impersonate/token"
)

type frameKey struct{}

// frame is the identity a context carries into child goroutines.
type frame struct {
	runner *Runner
	handle *token.Handle
}

func withFrame(ctx context.Context, f frame) context.Context {
	return context.WithValue(ctx, frameKey{}, f)
}

func frameFrom(ctx context.Context) (frame, bool) {
	f, ok := ctx.Value(frameKey{}).(frame)
	return f, ok
}

// Token returns the handle whose identity ctx carries, or nil outside a
// scoped execution.
func Token(ctx context.Context) *token.Handle {
	if f, ok := frameFrom(ctx); ok {
		return f.handle
	}
	return nil
}

// Active reports whether ctx belongs to a scoped execution.
func Active(ctx context.Context) bool {
	_, ok := frameFrom(ctx)
	return ok
}

// Go starts fn on a new goroutine under the identity carried by ctx. Outside
// a scoped execution fn runs with the process identity.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task[struct{}] {
	work := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}
	if f, ok := frameFrom(ctx); ok {
		return Start(ctx, f.runner, f.handle, work)
	}

	t := newTask[struct{}]()
	go func() {
		var (
			out      outcome[struct{}]
			returned bool
		)
		defer func() {
			if v := recover(); v != nil {
				out.panicked, out.panicVal = true, v
			} else if !returned {
				out.err = ErrWorkExited
			}
			t.finish(out)
		}()
		out.value, out.err = work(ctx)
		returned = true
	}()
	return t
}

// Group is an errgroup whose goroutines inherit the identity of the context
// the group was created from.
type Group struct {
	g   *errgroup.Group
	ctx context.Context
}

// WithGroup returns a Group and a derived context that is cancelled when a
// goroutine in the group fails or Wait returns.
func WithGroup(ctx context.Context) (*Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx}, gctx
}

// SetLimit limits the number of active goroutines. See errgroup.Group.SetLimit.
func (g *Group) SetLimit(n int) {
	g.g.SetLimit(n)
}

// Go runs fn on a new goroutine under the group's identity.
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.g.Go(func() error {
		if f, ok := frameFrom(g.ctx); ok {
			return f.runner.Run(g.ctx, f.handle, fn)
		}
		return fn(g.ctx)
	})
}

// Wait blocks until all goroutines have returned and returns the first error.
func (g *Group) Wait() error {
	return g.g.Wait()
}
