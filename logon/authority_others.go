//go:build !windows

package logon

import "github.com/smnsjas/go-impersonate/token"

// platformAuthority has no logon primitive to call.
type platformAuthority struct{}

func (platformAuthority) LogonUser(*Request) (token.Raw, error) {
	return 0, ErrNotSupported
}

func (platformAuthority) CloseHandle(token.Raw) error {
	return ErrNotSupported
}
