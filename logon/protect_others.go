//go:build !windows

package logon

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadProtector seals memory with a per-secret random key. It keeps the
// plaintext out of long-lived heap memory but offers no protection against
// an attacker who can read the whole process.
type aeadProtector struct {
	aead cipher.AEAD
}

func newMemoryProtector() (memoryProtector, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate secret key: %w", err)
	}
	defer clear(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create secret cipher: %w", err)
	}
	return &aeadProtector{aead: aead}, nil
}

func (p *aeadProtector) seal(plain []byte) ([]byte, error) {
	if p.aead == nil {
		return nil, ErrSecretDestroyed
	}
	nonce := make([]byte, p.aead.NonceSize(), p.aead.NonceSize()+len(plain)+p.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return p.aead.Seal(nonce, nonce, plain, nil), nil
}

func (p *aeadProtector) open(sealed []byte, n int) ([]byte, error) {
	if p.aead == nil {
		return nil, ErrSecretDestroyed
	}
	ns := p.aead.NonceSize()
	if len(sealed) < ns {
		return nil, errors.New("sealed secret too short")
	}
	plain, err := p.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("open secret: %w", err)
	}
	if len(plain) != n {
		clear(plain)
		return nil, fmt.Errorf("open secret: length %d, want %d", len(plain), n)
	}
	return plain, nil
}

func (p *aeadProtector) destroy() {
	p.aead = nil
}
