package logon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnsjas/go-impersonate/token"
)

func newTestAcquirer(f *fakeAuthority) *Acquirer {
	return NewAcquirer(
		WithAuthority(f),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestAcquire_Success(t *testing.T) {
	f := &fakeAuthority{raw: token.Raw(0x100)}
	creds, err := New(`CORP\alice`, Password("s3cret!"))
	require.NoError(t, err)

	h, err := newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.False(t, h.IsInvalid())

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "CORP", req.Domain)
	assert.Equal(t, Interactive, req.Type)
	assert.Equal(t, ProviderDefault, req.Provider)
	assert.Equal(t, "s3cret!", f.passwords[0])

	assert.Empty(t, f.closes(), "handle must not be closed before its owner closes it")
	require.NoError(t, h.Close())
	assert.Equal(t, []token.Raw{0x100}, f.closes())
}

func TestAcquire_UPNHasNoDomain(t *testing.T) {
	f := &fakeAuthority{raw: token.Raw(1)}
	creds, err := New("alice@corp.example.com", Password("pw"))
	require.NoError(t, err)

	h, err := newTestAcquirer(f).Acquire(context.Background(), creds, Params{Type: NewCredentials, Provider: ProviderNegotiate})
	require.NoError(t, err)
	defer h.Close()

	req := f.requests[0]
	assert.Equal(t, "alice@corp.example.com", req.Username)
	assert.Equal(t, "", req.Domain)
	assert.Equal(t, NewCredentials, req.Type)
	assert.Equal(t, ProviderNegotiate, req.Provider)
}

func TestAcquire_PasswordBufferZeroed(t *testing.T) {
	f := &fakeAuthority{raw: token.Raw(1)}
	creds, err := New("alice", Password("hunter2"))
	require.NoError(t, err)

	h, err := newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	require.NoError(t, err)
	defer h.Close()

	buf := f.buffers[0]
	require.NotEmpty(t, buf)
	for i, u := range buf {
		assert.Zero(t, u, "password buffer not zeroed at %d", i)
	}
}

func TestAcquire_PasswordZeroedWhenPrimitivePanics(t *testing.T) {
	var captured []uint16
	a := NewAcquirer(WithAuthority(panicAuthority{capture: &captured}))
	creds, err := New("alice", Password("hunter2"))
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = a.Acquire(context.Background(), creds, Params{})
	})
	require.NotEmpty(t, captured)
	for _, u := range captured {
		assert.Zero(t, u)
	}
}

type panicAuthority struct {
	capture *[]uint16
}

func (p panicAuthority) LogonUser(req *Request) (token.Raw, error) {
	*p.capture = req.Password
	panic("primitive crashed")
}

func (panicAuthority) CloseHandle(token.Raw) error { return nil }

func TestAcquire_ProtectedSecret(t *testing.T) {
	secret, err := NewProtectedSecret([]byte("pässwörd🔑"))
	require.NoError(t, err)
	defer secret.Destroy()

	f := &fakeAuthority{raw: token.Raw(2)}
	creds, err := NewWithDomain(".", "alice", secret)
	require.NoError(t, err)

	h, err := newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, "pässwörd🔑", f.passwords[0])
	assert.Equal(t, ".", f.requests[0].Domain)
	for _, u := range f.buffers[0] {
		assert.Zero(t, u)
	}
}

func TestAcquire_FailureClosesLeakedToken(t *testing.T) {
	for _, raw := range []token.Raw{0x200, 0x7} {
		f := &fakeAuthority{raw: raw, err: syscall.Errno(CodeLogonFailure)}
		creds, err := New("alice", Password("wrong"))
		require.NoError(t, err)

		h, err := newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
		require.Error(t, err)
		assert.Nil(t, h)

		assert.Equal(t, []token.Raw{raw}, f.closes(), "leaked token must be closed exactly once")
		assert.Equal(t, 1, f.calls(), "logon must not be retried")

		var le *Error
		require.ErrorAs(t, err, &le)
		assert.Equal(t, CodeLogonFailure, le.Code)
		assert.True(t, le.IsLogonFailure())
		assert.NotEmpty(t, le.Message)
		assert.ErrorIs(t, err, syscall.Errno(CodeLogonFailure))
	}
}

func TestAcquire_FailureWithoutTokenSkipsClose(t *testing.T) {
	for _, raw := range []token.Raw{0, ^token.Raw(0)} {
		f := &fakeAuthority{raw: raw, err: syscall.Errno(CodeAccountLockedOut)}
		creds, err := New("alice", Password("pw"))
		require.NoError(t, err)

		_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
		var le *Error
		require.ErrorAs(t, err, &le)
		assert.True(t, le.IsAccountLockedOut())
		assert.Empty(t, f.closes())
	}
}

func TestAcquire_FailureCloseErrorKeepsLogonError(t *testing.T) {
	f := &fakeAuthority{
		raw:      token.Raw(9),
		err:      syscall.Errno(CodeAccountRestriction),
		closeErr: errors.New("close failed"),
	}
	creds, err := New("alice", Password("pw"))
	require.NoError(t, err)

	_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, CodeAccountRestriction, le.Code)
	assert.Len(t, f.closes(), 1)
}

func TestAcquire_NonNativeError(t *testing.T) {
	f := &fakeAuthority{err: errors.New("rpc unavailable")}
	creds, err := New("alice", Password("pw"))
	require.NoError(t, err)

	_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Zero(t, le.Code)
	assert.Contains(t, le.Error(), "rpc unavailable")
}

func TestAcquire_SuccessWithoutTokenIsError(t *testing.T) {
	f := &fakeAuthority{raw: 0}
	creds, err := New("alice", Password("pw"))
	require.NoError(t, err)

	_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestAcquire_InvalidParams(t *testing.T) {
	f := &fakeAuthority{raw: token.Raw(1)}
	creds, err := New("alice", Password("pw"))
	require.NoError(t, err)

	_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{Type: Type(6)})
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{Provider: Provider(1)})
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Zero(t, f.calls())
}

func TestAcquire_CancelledContext(t *testing.T) {
	f := &fakeAuthority{raw: token.Raw(1)}
	creds, err := New("alice", Password("pw"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = newTestAcquirer(f).Acquire(ctx, creds, Params{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.calls())
}

func TestAcquire_DestroyedSecret(t *testing.T) {
	secret, err := NewProtectedSecret([]byte("pw"))
	require.NoError(t, err)
	f := &fakeAuthority{raw: token.Raw(1)}
	creds, err := New("alice", secret)
	require.NoError(t, err)

	secret.Destroy()

	_, err = newTestAcquirer(f).Acquire(context.Background(), creds, Params{})
	assert.ErrorIs(t, err, ErrSecretDestroyed)
	assert.Zero(t, f.calls())
}

func TestAcquire_BuiltInAccount(t *testing.T) {
	f := &fakeAuthority{raw: token.Raw(4)}

	h, err := newTestAcquirer(f).Acquire(context.Background(), NetworkService(), Params{Type: Service})
	require.NoError(t, err)
	defer h.Close()

	req := f.requests[0]
	assert.Equal(t, "NETWORK SERVICE", req.Username)
	assert.Equal(t, "NT AUTHORITY", req.Domain)
	assert.Equal(t, "", f.passwords[0])
}

func TestAcquire_NilCredentials(t *testing.T) {
	f := &fakeAuthority{}
	_, err := newTestAcquirer(f).Acquire(context.Background(), nil, Params{})
	assert.Error(t, err)
	assert.Zero(t, f.calls())
}
