package logon

import "github.com/smnsjas/go-impersonate/token"

// Request is one call to the logon primitive.
type Request struct {
	// Username is passed as given; UPN names keep their @ suffix.
	Username string

	// Domain is "" when the primitive should receive a NULL domain.
	Domain string

	// Password is NUL-terminated UTF-16. It is only valid for the duration of
	// the LogonUser call and is zeroed afterwards.
	Password []uint16

	Type     Type
	Provider Provider
}

// Authority is the external authentication primitive.
//
// LogonUser must return the native error (a syscall.Errno or a value with a
// NativeCode() uint32 method) captured immediately after the call. It may
// return a raw reference together with an error; Acquire closes it.
type Authority interface {
	LogonUser(req *Request) (token.Raw, error)
	CloseHandle(raw token.Raw) error
}

// DefaultAuthority returns the platform logon primitive.
func DefaultAuthority() Authority {
	return platformAuthority{}
}
