//go:build !linux && !windows

package impersonate

import "testing"

func threadID() int { return 0 }

func requireThreadIDs(t *testing.T) {
	t.Helper()
	t.Skip("no thread ID available on this platform")
}
