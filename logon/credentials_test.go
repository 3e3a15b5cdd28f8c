package logon

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnsjas/go-impersonate/account"
)

func mustProtected(t *testing.T, s string) *ProtectedSecret {
	t.Helper()
	p, err := NewProtectedSecret([]byte(s))
	require.NoError(t, err)
	t.Cleanup(p.Destroy)
	return p
}

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"user", "user"},
		{"user@domain", "user@domain"},
		{`domain\user`, "user@domain"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			plain, err := New(tt.username, Password("password"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, plain.String())

			protected, err := New(tt.username, mustProtected(t, "password"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, protected.String())
		})
	}
}

func TestNewWithDomain_Valid(t *testing.T) {
	plain, err := NewWithDomain("domain", "user", Password("password"))
	require.NoError(t, err)
	assert.Equal(t, "user@domain", plain.String())

	protected, err := NewWithDomain("domain", "user", mustProtected(t, "password"))
	require.NoError(t, err)
	assert.Equal(t, "user@domain", protected.String())
	assert.Equal(t, "domain", protected.Identifier().Domain())
}

func TestNewWithDomain_DomainInBoth(t *testing.T) {
	for _, username := range []string{"user@domain", `domain\user`} {
		_, err := NewWithDomain("domain", username, Password("password"))
		assert.ErrorIs(t, err, account.ErrInvalidIdentifier, username)

		_, err = NewWithDomain("domain", username, mustProtected(t, "password"))
		assert.ErrorIs(t, err, account.ErrInvalidIdentifier, username)
	}
}

func TestNew_InvalidIdentifier(t *testing.T) {
	_, err := NewWithDomain("", "user", Password("password"))
	assert.ErrorIs(t, err, account.ErrInvalidIdentifier)

	_, err = NewWithDomain("domain", "", Password("password"))
	assert.ErrorIs(t, err, account.ErrInvalidIdentifier)

	_, err = New("", Password("password"))
	assert.ErrorIs(t, err, account.ErrInvalidIdentifier)
}

func TestNew_InvalidSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  Secret
		wantErr error
	}{
		{"empty password", Password(""), ErrInvalidSecret},
		{"whitespace password", Password("  \t"), ErrInvalidSecret},
		{"nul in password", Password("a\x00b"), ErrInvalidSecret},
		{"empty protected", mustProtected(t, ""), ErrInvalidSecret},
		{"nil secret", nil, ErrNilSecret},
		{"nil protected", (*ProtectedSecret)(nil), ErrNilSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("user", tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = NewWithDomain("domain", "user", tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_IdentifierCheckedBeforeSecret(t *testing.T) {
	_, err := New(`a\b\c`, nil)
	assert.ErrorIs(t, err, account.ErrInvalidIdentifier)
}

func TestBuiltInAccounts(t *testing.T) {
	tests := []struct {
		creds *Credentials
		want  string
	}{
		{NetworkService(), "network service@nt authority"},
		{LocalSystem(), "system@nt authority"},
		{LocalService(), "local service@nt authority"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, strings.ToLower(tt.creds.String()))
		assert.True(t, strings.EqualFold(tt.want, tt.creds.String()))
	}
}

func TestCredentials_NeverFormatsSecret(t *testing.T) {
	const pw = "correct horse battery staple"
	creds, err := New(`CORP\alice`, Password(pw))
	require.NoError(t, err)

	for _, format := range []string{"%v", "%+v", "%s", "%#v"} {
		out := fmt.Sprintf(format, creds)
		assert.NotContains(t, out, pw, format)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("test", "creds", creds, "password", Password(pw))
	assert.NotContains(t, buf.String(), pw)
	assert.Contains(t, buf.String(), "alice@CORP")
	assert.Contains(t, buf.String(), "[REDACTED]")
}
