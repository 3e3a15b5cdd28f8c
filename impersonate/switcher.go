package impersonate

import (
	"errors"

	"github.com/smnsjas/go-impersonate/token"
)

// ErrNotSupported is returned by the default Switcher on platforms without
// thread impersonation.
var ErrNotSupported = errors.New("impersonate: not supported on this platform")

// Switcher changes the effective identity of the calling OS thread.
type Switcher interface {
	// Impersonate makes raw the identity of the calling thread and returns a
	// function that restores the identity the thread had before. Both are
	// called on the same locked thread.
	Impersonate(raw token.Raw) (restore func() error, err error)
}

// DefaultSwitcher returns the platform Switcher.
func DefaultSwitcher() Switcher {
	return platformSwitcher{}
}
