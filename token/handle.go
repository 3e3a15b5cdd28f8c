// Package token wraps raw OS token references in a handle that releases the
// underlying resource exactly once.
//
// # Ownership
//
// A Handle has a single logical owner, which must call Close when done.
// Scoped executions borrow the raw reference through Borrow; a Close that
// arrives while borrows are outstanding marks the handle closed immediately
// and defers the OS release until the last borrow returns.
//
// A handle that becomes unreachable without being closed is released by a
// runtime cleanup, but callers should not rely on it.
package token

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
)

// ErrClosed is returned when a closed handle is used.
var ErrClosed = errors.New("token: handle is closed")

// ErrInvalid is returned when an invalid raw reference is used as a token.
var ErrInvalid = errors.New("token: invalid handle")

// Raw is an opaque OS token reference.
type Raw uintptr

// invalidMinusOne is INVALID_HANDLE_VALUE.
const invalidMinusOne = ^Raw(0)

// IsValid reports whether r is neither zero nor minus one.
func (r Raw) IsValid() bool {
	return r != 0 && r != invalidMinusOne
}

// CloseFunc releases a raw reference.
type CloseFunc func(Raw) error

// state is kept separate from Handle so the runtime cleanup can reach it
// without keeping the Handle alive.
type state struct {
	mu       sync.Mutex
	raw      Raw
	closer   CloseFunc
	borrows  int
	closed   bool
	released bool
}

// Handle owns a raw token reference.
type Handle struct {
	s       *state
	valid   bool
	cleanup runtime.Cleanup
}

// New takes ownership of raw. closer is invoked at most once, and never for
// an invalid raw reference.
func New(raw Raw, closer CloseFunc) *Handle {
	s := &state{raw: raw, closer: closer}
	h := &Handle{s: s, valid: raw.IsValid()}
	if h.valid {
		h.cleanup = runtime.AddCleanup(h, func(s *state) {
			s.mu.Lock()
			s.closed = true
			err := s.releaseLocked()
			s.mu.Unlock()
			if err != nil {
				slog.Warn("token released by cleanup failed", "error", err)
			}
		}, s)
	}
	return h
}

// IsInvalid reports whether the wrapped reference is zero or minus one.
func (h *Handle) IsInvalid() bool {
	return !h.valid
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.s.closed
}

// Borrow calls fn with the raw reference. The reference stays valid until fn
// returns and must not be retained afterwards.
func (h *Handle) Borrow(fn func(Raw) error) error {
	s := h.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !h.valid {
		s.mu.Unlock()
		return ErrInvalid
	}
	s.borrows++
	raw := s.raw
	s.mu.Unlock()

	defer h.unborrow()
	return fn(raw)
}

func (h *Handle) unborrow() {
	s := h.s
	s.mu.Lock()
	s.borrows--
	var err error
	if s.closed && s.borrows == 0 {
		err = s.releaseLocked()
	}
	s.mu.Unlock()
	if err != nil {
		slog.Warn("deferred token release failed", "error", err)
	}
	runtime.KeepAlive(h)
}

// Close releases the token. Calling Close more than once is a no-op. When
// borrows are outstanding the release happens when the last one returns and
// Close returns nil.
func (h *Handle) Close() error {
	s := h.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.borrows > 0 {
		s.mu.Unlock()
		return nil
	}
	err := s.releaseLocked()
	s.mu.Unlock()

	h.cleanup.Stop()
	return err
}

// releaseLocked must be called with mu held.
func (s *state) releaseLocked() error {
	if s.released {
		return nil
	}
	s.released = true
	raw := s.raw
	s.raw = 0
	if !raw.IsValid() || s.closer == nil {
		return nil
	}
	if err := s.closer(raw); err != nil {
		return fmt.Errorf("close token: %w", err)
	}
	return nil
}
