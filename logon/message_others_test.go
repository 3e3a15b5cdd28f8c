//go:build !windows

package logon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Table(t *testing.T) {
	assert.Equal(t, "The user name or password is incorrect.", FromNativeCode(CodeLogonFailure).Message)
	assert.Equal(t, "Win32 error 4242", FromNativeCode(4242).Message)
}

func TestDefaultAuthority_NotSupported(t *testing.T) {
	creds, err := New("alice", Password("pw"))
	assert.NoError(t, err)

	_, err = Acquire(context.Background(), creds, Params{})
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.False(t, IsError(err))
}
