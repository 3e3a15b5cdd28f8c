// Package impersonate runs code under the security context of a logged-on
// token and restores the caller's context afterwards.
//
// # Execution Model
//
// Windows impersonation is a property of an OS thread, while Go schedules
// goroutines across threads. Every scoped execution therefore runs its work
// on a fresh goroutine locked to one OS thread for the work's entire
// lifetime:
//
//  1. the handle is borrowed, so a concurrent Close cannot release it
//  2. the thread's current identity is saved and the token is impersonated
//  3. the work runs; blocking inside it never moves it to another thread
//  4. the saved identity is restored, even if the work failed, panicked or
//     observed cancellation
//
// If restoring fails, the goroutine exits still locked and the runtime
// terminates the thread instead of reusing it. The failure is logged and
// returned as a *RestoreError joined with the work's own result.
//
// Concurrent executions, over the same or different handles, each use their
// own thread and cannot observe one another's identity.
//
// # Child Goroutines
//
// The identity travels with the context passed to the work, not with the
// thread. Goroutines started with Go or a Group from that context
// impersonate the same token on their own thread:
//
//	err := runner.Run(ctx, h, func(ctx context.Context) error {
//	    g, ctx := impersonate.WithGroup(ctx)
//	    for _, f := range files {
//	        g.Go(func(ctx context.Context) error { return process(ctx, f) })
//	    }
//	    return g.Wait()
//	})
//
// A plain `go` statement inside the work does not inherit the identity.
//
// # Ownership
//
// Run, Call and Start never close the handle; one token can back any number
// of executions. RunAs and CallAs acquire and close a token around a single
// execution.
package impersonate
