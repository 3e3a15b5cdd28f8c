//go:build !windows

package impersonate

// CurrentUser is not supported on this platform.
func CurrentUser() (string, error) {
	return "", ErrNotSupported
}
