package logon

import (
	"sync"
	"unicode/utf16"

	"github.com/smnsjas/go-impersonate/token"
)

// fakeAuthority records LogonUser calls and returns a canned result.
type fakeAuthority struct {
	mu sync.Mutex

	raw token.Raw
	err error

	requests  []Request
	passwords []string
	buffers   [][]uint16
	closed    []token.Raw
	closeErr  error
}

func (f *fakeAuthority) LogonUser(req *Request) (token.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pw := req.Password
	if n := len(pw); n > 0 && pw[n-1] == 0 {
		pw = pw[:n-1]
	}
	f.passwords = append(f.passwords, string(utf16.Decode(pw)))
	f.buffers = append(f.buffers, req.Password)

	r := *req
	r.Password = nil
	f.requests = append(f.requests, r)
	return f.raw, f.err
}

func (f *fakeAuthority) CloseHandle(raw token.Raw) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, raw)
	return f.closeErr
}

func (f *fakeAuthority) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAuthority) closes() []token.Raw {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]token.Raw(nil), f.closed...)
}
