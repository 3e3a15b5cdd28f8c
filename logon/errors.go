package logon

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrNotSupported is returned by the default Authority on platforms without
// a logon primitive.
var ErrNotSupported = errors.New("logon: not supported on this platform")

// Win32 error codes commonly returned by LogonUser.
const (
	CodeAccessDenied          uint32 = 5
	CodeNoSuchLogonSession    uint32 = 1312
	CodeLogonFailure          uint32 = 1326
	CodeAccountRestriction    uint32 = 1327
	CodeInvalidLogonHours     uint32 = 1328
	CodeInvalidWorkstation    uint32 = 1329
	CodePasswordExpired       uint32 = 1330
	CodeAccountDisabled       uint32 = 1331
	CodeNoLogonServers        uint32 = 1311
	CodeLogonTypeNotGranted   uint32 = 1385
	CodeAccountExpired        uint32 = 1793
	CodePasswordMustChange    uint32 = 1907
	CodeAccountLockedOut      uint32 = 1909
	CodePrivilegeNotHeld      uint32 = 1314
	CodeTrustFailure          uint32 = 1790
	CodeDowngradeDetected     uint32 = 1265
	CodeNoTrustSAMAccount     uint32 = 1787
	CodeLogonNotGrantedPolicy uint32 = 1384
)

// Error is a logon failure reported by the logon primitive.
type Error struct {
	// Code is the native Win32 error code. It is 0 when the failure did not
	// carry one.
	Code uint32

	// Message is the system message for Code.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == 0 {
		return "logon failed: " + e.Message
	}
	return fmt.Sprintf("logon failed: %s (code %d)", e.Message, e.Code)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsLogonFailure returns true for an unknown user name or bad password.
func (e *Error) IsLogonFailure() bool { return e.Code == CodeLogonFailure }

// IsAccountLockedOut returns true if the account is locked out.
func (e *Error) IsAccountLockedOut() bool { return e.Code == CodeAccountLockedOut }

// IsAccountRestriction returns true for account restrictions such as blank
// passwords not being allowed or logon hours.
func (e *Error) IsAccountRestriction() bool {
	switch e.Code {
	case CodeAccountRestriction, CodeInvalidLogonHours, CodeInvalidWorkstation:
		return true
	}
	return false
}

// IsAccountDisabled returns true if the account is disabled or expired.
func (e *Error) IsAccountDisabled() bool {
	return e.Code == CodeAccountDisabled || e.Code == CodeAccountExpired
}

// IsPasswordExpired returns true if the password has expired or must be
// changed before first logon.
func (e *Error) IsPasswordExpired() bool {
	return e.Code == CodePasswordExpired || e.Code == CodePasswordMustChange
}

// IsLogonTypeNotGranted returns true if the account lacks the right for the
// requested logon type.
func (e *Error) IsLogonTypeNotGranted() bool {
	return e.Code == CodeLogonTypeNotGranted || e.Code == CodeLogonNotGrantedPolicy
}

// FromNativeCode builds an Error for a Win32 error code.
func FromNativeCode(code uint32) *Error {
	return &Error{
		Code:    code,
		Message: message(code),
		Err:     syscall.Errno(code),
	}
}

// FromError translates err into an Error, keeping err as the cause. A nil
// err yields nil.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	code, ok := NativeCode(err)
	if !ok {
		return &Error{Message: err.Error(), Err: err}
	}
	return &Error{Code: code, Message: message(code), Err: err}
}

// NativeCode extracts a Win32 error code from err.
func NativeCode(err error) (uint32, bool) {
	var coded interface{ NativeCode() uint32 }
	if errors.As(err, &coded) {
		return coded.NativeCode(), true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return uint32(errno), true
	}
	return 0, false
}

// IsError returns true if err is or wraps an *Error.
func IsError(err error) bool {
	var le *Error
	return errors.As(err, &le)
}
