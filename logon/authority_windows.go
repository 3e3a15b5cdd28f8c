//go:build windows

package logon

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/smnsjas/go-impersonate/token"
)

var (
	modadvapi32    = windows.NewLazySystemDLL("advapi32.dll")
	procLogonUserW = modadvapi32.NewProc("LogonUserW")
)

// platformAuthority calls advapi32 LogonUserW.
type platformAuthority struct{}

func (platformAuthority) LogonUser(req *Request) (token.Raw, error) {
	user, err := windows.UTF16PtrFromString(req.Username)
	if err != nil {
		return 0, fmt.Errorf("encode username to UTF-16: %w", err)
	}
	var domain *uint16
	if req.Domain != "" {
		if domain, err = windows.UTF16PtrFromString(req.Domain); err != nil {
			return 0, fmt.Errorf("encode domain to UTF-16: %w", err)
		}
	}
	var password *uint16
	if len(req.Password) > 0 {
		password = &req.Password[0]
	}

	var tok windows.Token
	r1, _, callErr := procLogonUserW.Call(
		uintptr(unsafe.Pointer(user)),
		uintptr(unsafe.Pointer(domain)),
		uintptr(unsafe.Pointer(password)),
		uintptr(req.Type),
		uintptr(req.Provider),
		uintptr(unsafe.Pointer(&tok)),
	)
	if r1 == 0 {
		errno, ok := callErr.(syscall.Errno)
		if !ok || errno == 0 {
			errno = syscall.EINVAL
		}
		return token.Raw(tok), errno
	}
	return token.Raw(tok), nil
}

func (platformAuthority) CloseHandle(raw token.Raw) error {
	return windows.CloseHandle(windows.Handle(raw))
}
