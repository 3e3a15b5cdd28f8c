//go:build windows

package logon

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	cryptProtectMemoryBlockSize   = 16
	cryptProtectMemorySameProcess = 0x00
)

var (
	modcrypt32               = windows.NewLazySystemDLL("crypt32.dll")
	procCryptProtectMemory   = modcrypt32.NewProc("CryptProtectMemory")
	procCryptUnprotectMemory = modcrypt32.NewProc("CryptUnprotectMemory")
)

// dpapiProtector seals memory with CryptProtectMemory. The key is managed by
// the OS and bound to this process.
type dpapiProtector struct{}

func newMemoryProtector() (memoryProtector, error) {
	if err := procCryptProtectMemory.Find(); err != nil {
		return nil, fmt.Errorf("load CryptProtectMemory: %w", err)
	}
	return dpapiProtector{}, nil
}

func (dpapiProtector) seal(plain []byte) ([]byte, error) {
	size := (len(plain) + cryptProtectMemoryBlockSize - 1) / cryptProtectMemoryBlockSize * cryptProtectMemoryBlockSize
	buf := make([]byte, size)
	copy(buf, plain)

	r1, _, err := procCryptProtectMemory.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		cryptProtectMemorySameProcess,
	)
	if r1 == 0 {
		clear(buf)
		return nil, fmt.Errorf("CryptProtectMemory failed: %w", err)
	}
	return buf, nil
}

func (dpapiProtector) open(sealed []byte, n int) ([]byte, error) {
	buf := make([]byte, len(sealed))
	copy(buf, sealed)

	r1, _, err := procCryptUnprotectMemory.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		cryptProtectMemorySameProcess,
	)
	if r1 == 0 {
		clear(buf)
		return nil, fmt.Errorf("CryptUnprotectMemory failed: %w", err)
	}
	clear(buf[n:])
	return buf[:n], nil
}

func (dpapiProtector) destroy() {}
