//go:build windows

package impersonate

import (
	"testing"

	"golang.org/x/sys/windows"
)

func threadID() int { return int(windows.GetCurrentThreadId()) }

func requireThreadIDs(*testing.T) {}
