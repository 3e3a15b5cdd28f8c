//go:build !windows

package impersonate

import "github.com/smnsjas/go-impersonate/token"

// platformSwitcher has no thread identity to change.
type platformSwitcher struct{}

func (platformSwitcher) Impersonate(token.Raw) (func() error, error) {
	return nil, ErrNotSupported
}
