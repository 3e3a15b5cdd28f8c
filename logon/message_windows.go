//go:build windows

package logon

import "syscall"

// message asks FormatMessage for the system text of code.
func message(code uint32) string {
	return syscall.Errno(code).Error()
}
