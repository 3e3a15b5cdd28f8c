package impersonate

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/smnsjas/go-impersonate/token"
)

// fakeSwitcher tracks a per-OS-thread identity the way the Windows thread
// token does. A thread absent from the map has the process identity (0).
type fakeSwitcher struct {
	mu      sync.Mutex
	threads map[int]token.Raw

	impersonateErr error
	restoreErr     error

	impersonations atomic.Int32
	restores       atomic.Int32
}

func newFakeSwitcher() *fakeSwitcher {
	return &fakeSwitcher{threads: make(map[int]token.Raw)}
}

func (f *fakeSwitcher) Impersonate(raw token.Raw) (func() error, error) {
	if f.impersonateErr != nil {
		return nil, f.impersonateErr
	}
	tid := threadID()

	f.mu.Lock()
	prior, had := f.threads[tid]
	f.threads[tid] = raw
	f.mu.Unlock()
	f.impersonations.Add(1)

	return func() error {
		if f.restoreErr != nil {
			return f.restoreErr
		}
		if now := threadID(); now != tid {
			return fmt.Errorf("restore on thread %d, impersonated on %d", now, tid)
		}
		f.mu.Lock()
		if had {
			f.threads[tid] = prior
		} else {
			delete(f.threads, tid)
		}
		f.mu.Unlock()
		f.restores.Add(1)
		return nil
	}, nil
}

// current returns the identity of the calling thread.
func (f *fakeSwitcher) current() token.Raw {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threads[threadID()]
}

// impersonating returns how many threads still carry a token.
func (f *fakeSwitcher) impersonating() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.threads)
}

type closeCounter struct {
	n atomic.Int32
}

func (c *closeCounter) close(token.Raw) error {
	c.n.Add(1)
	return nil
}

func newHandle(raw token.Raw) (*token.Handle, *closeCounter) {
	c := &closeCounter{}
	return token.New(raw, c.close), c
}

var errWork = errors.New("work failed")
