package logon

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

// Secret errors.
var (
	// ErrInvalidSecret indicates an empty or malformed password.
	ErrInvalidSecret = errors.New("logon: invalid secret")

	// ErrNilSecret indicates a nil Secret or *ProtectedSecret.
	ErrNilSecret = errors.New("logon: secret is nil")

	// ErrSecretDestroyed indicates a ProtectedSecret used after Destroy.
	ErrSecretDestroyed = errors.New("logon: secret has been destroyed")
)

const redacted = "[REDACTED]"

// Secret is a password that can only be consumed by this package.
//
// Implementations are Password and *ProtectedSecret.
type Secret interface {
	validate() error

	// reveal passes a NUL-terminated UTF-16 copy of the secret to fn. The
	// buffer is zeroed when fn returns.
	reveal(fn func(pw []uint16) error) error
}

// Password is a plaintext secret. It formats and logs as [REDACTED].
type Password string

// String implements fmt.Stringer.
func (Password) String() string { return redacted }

// GoString implements fmt.GoStringer.
func (Password) GoString() string { return redacted }

// LogValue implements slog.LogValuer.
func (Password) LogValue() slog.Value { return slog.StringValue(redacted) }

func (p Password) validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("%w: password cannot be empty or consist solely of whitespace characters", ErrInvalidSecret)
	}
	if strings.IndexByte(string(p), 0) >= 0 {
		return fmt.Errorf("%w: password cannot contain NUL characters", ErrInvalidSecret)
	}
	return nil
}

func (p Password) reveal(fn func(pw []uint16) error) error {
	buf := make([]uint16, 0, len(p)+1)
	for _, r := range string(p) {
		buf = utf16.AppendRune(buf, r)
	}
	buf = append(buf, 0)
	defer clear(buf)
	return fn(buf)
}

// ProtectedSecret holds a password encrypted in process memory.
//
// Credentials never take ownership of a ProtectedSecret: the caller must call
// Destroy once it is no longer needed, independently of any Credentials
// built from it.
type ProtectedSecret struct {
	mu        sync.Mutex
	box       memoryProtector
	sealed    []byte
	units     int // UTF-16 code units
	destroyed bool
}

// NewProtectedSecret seals a copy of the UTF-8 password b. The caller keeps
// ownership of b and should zero it.
func NewProtectedSecret(b []byte) (*ProtectedSecret, error) {
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: password is not valid UTF-8", ErrInvalidSecret)
	}
	box, err := newMemoryProtector()
	if err != nil {
		return nil, err
	}
	p := &ProtectedSecret{box: box}

	plain := make([]byte, 0, 2*len(b))
	for _, r := range string(b) {
		plain = appendUTF16LE(plain, r)
	}
	defer clear(plain)

	if err := p.sealLocked(plain); err != nil {
		return nil, err
	}
	return p, nil
}

// AppendRune adds r to the end of the secret.
func (p *ProtectedSecret) AppendRune(r rune) error {
	if p == nil {
		return ErrNilSecret
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return ErrSecretDestroyed
	}

	plain, err := p.openLocked()
	if err != nil {
		return err
	}
	defer clear(plain)
	grown := appendUTF16LE(plain, r)
	defer clear(grown)
	return p.sealLocked(grown)
}

// Len returns the length in UTF-16 code units.
func (p *ProtectedSecret) Len() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.units
}

// Destroy wipes the secret and its key material. It is safe to call more
// than once.
func (p *ProtectedSecret) Destroy() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	clear(p.sealed)
	p.sealed = nil
	p.units = 0
	if p.box != nil {
		p.box.destroy()
	}
	p.destroyed = true
}

// String implements fmt.Stringer.
func (p *ProtectedSecret) String() string { return redacted }

// LogValue implements slog.LogValuer.
func (p *ProtectedSecret) LogValue() slog.Value { return slog.StringValue(redacted) }

func (p *ProtectedSecret) validate() error {
	if p == nil {
		return ErrNilSecret
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return ErrSecretDestroyed
	}
	if p.units == 0 {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidSecret)
	}
	return nil
}

// reveal holds the lock for the duration of fn so the secret cannot be
// modified or destroyed while the logon primitive reads it.
func (p *ProtectedSecret) reveal(fn func(pw []uint16) error) error {
	if p == nil {
		return ErrNilSecret
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return ErrSecretDestroyed
	}

	plain, err := p.openLocked()
	if err != nil {
		return err
	}
	buf := make([]uint16, p.units+1)
	for i := 0; i < p.units; i++ {
		buf[i] = binary.LittleEndian.Uint16(plain[2*i:])
	}
	clear(plain)
	defer clear(buf)

	return fn(buf)
}

func (p *ProtectedSecret) openLocked() ([]byte, error) {
	if p.units == 0 {
		return nil, nil
	}
	return p.box.open(p.sealed, 2*p.units)
}

func (p *ProtectedSecret) sealLocked(plain []byte) error {
	if p.box == nil {
		box, err := newMemoryProtector()
		if err != nil {
			return err
		}
		p.box = box
	}
	var sealed []byte
	if len(plain) > 0 {
		var err error
		if sealed, err = p.box.seal(plain); err != nil {
			return err
		}
	}
	clear(p.sealed)
	p.sealed = sealed
	p.units = len(plain) / 2
	return nil
}

func appendUTF16LE(b []byte, r rune) []byte {
	var units [2]uint16
	for _, u := range utf16.AppendRune(units[:0], r) {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return b
}

// memoryProtector encrypts secret bytes held in process memory.
type memoryProtector interface {
	seal(plain []byte) ([]byte, error)
	open(sealed []byte, n int) ([]byte, error)
	destroy()
}
