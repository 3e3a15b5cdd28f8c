//go:build windows

package impersonate

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// CurrentUser returns DOMAIN\user for the effective identity of the calling
// thread: its impersonation token if it has one, else the process token.
//
// Outside a scoped execution the goroutine may move between threads, so the
// answer is only meaningful inside work run by a Runner or on a goroutine
// locked with runtime.LockOSThread.
func CurrentUser() (string, error) {
	var tok windows.Token
	err := windows.OpenThreadToken(windows.CurrentThread(), windows.TOKEN_QUERY, true, &tok)
	switch {
	case err == nil:
		defer tok.Close()
	case errors.Is(err, windows.ERROR_NO_TOKEN):
		tok = windows.GetCurrentProcessToken()
	default:
		return "", fmt.Errorf("open thread token: %w", err)
	}

	user, err := tok.GetTokenUser()
	if err != nil {
		return "", fmt.Errorf("unable to get user: %w", err)
	}
	name, domain, _, err := user.User.Sid.LookupAccount("")
	if err != nil {
		return "", fmt.Errorf("unable to look up account: %w", err)
	}
	return domain + `\` + name, nil
}
