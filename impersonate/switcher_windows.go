//go:build windows

package impersonate

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/smnsjas/go-impersonate/token"
)

var (
	modadvapi32                 = windows.NewLazySystemDLL("advapi32.dll")
	procImpersonateLoggedOnUser = modadvapi32.NewProc("ImpersonateLoggedOnUser")
)

// platformSwitcher saves the thread token, if any, and impersonates with
// ImpersonateLoggedOnUser.
type platformSwitcher struct{}

func (platformSwitcher) Impersonate(raw token.Raw) (func() error, error) {
	var prior windows.Token
	err := windows.OpenThreadToken(windows.CurrentThread(), windows.TOKEN_IMPERSONATE|windows.TOKEN_QUERY, true, &prior)
	if err != nil {
		if !errors.Is(err, windows.ERROR_NO_TOKEN) {
			return nil, fmt.Errorf("open thread token: %w", err)
		}
		prior = 0
	}

	r1, _, callErr := procImpersonateLoggedOnUser.Call(uintptr(raw))
	if r1 == 0 {
		if prior != 0 {
			_ = prior.Close()
		}
		return nil, fmt.Errorf("ImpersonateLoggedOnUser: %w", callErr)
	}

	return func() error {
		if prior == 0 {
			if err := windows.RevertToSelf(); err != nil {
				return fmt.Errorf("RevertToSelf: %w", err)
			}
			return nil
		}
		defer prior.Close()
		if err := windows.SetThreadToken(nil, prior); err != nil {
			return fmt.Errorf("SetThreadToken: %w", err)
		}
		return nil
	}, nil
}
