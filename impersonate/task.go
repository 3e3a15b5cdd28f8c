package impersonate

import (
	"context"

	"github.com/google/uuid"
)

// Task is a scoped execution started with Start or Go.
type Task[T any] struct {
	id   string
	done chan struct{}
	out  outcome[T]
}

func newTask[T any]() *Task[T] {
	return &Task[T]{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

func (t *Task[T]) finish(out outcome[T]) {
	t.out = out
	close(t.done)
}

// ID returns the run ID used in log records.
func (t *Task[T]) ID() string { return t.id }

// Done is closed once the work has returned and the identity is restored.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until the task completes and returns its result. If the work
// panicked, Wait panics with the same value.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	if t.out.panicked {
		panic(t.out.panicVal)
	}
	return t.out.value, t.out.err
}

// Await is like Wait but gives up when ctx is done. The task keeps running
// and restores its identity when the work returns.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Wait()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
