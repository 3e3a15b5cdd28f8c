// Package logon turns account credentials into OS access tokens.
//
// # Credentials
//
// Credentials pair a validated account identifier (see package account) with
// a Secret. A Secret is either a plaintext Password or a *ProtectedSecret kept
// encrypted in memory. Neither can be read back through Credentials; the only
// consumer is Acquire, which decrypts into a scratch buffer for the duration
// of the logon call and zeroes it afterwards.
//
//	creds, err := logon.New(`CORP\svc_backup`, logon.Password(pw))
//	if err != nil {
//	    return err // account.ErrInvalidIdentifier or logon.ErrInvalidSecret
//	}
//
// A ProtectedSecret is owned by the caller, who must Destroy it:
//
//	secret, err := logon.NewProtectedSecret(pwBytes)
//	...
//	defer secret.Destroy()
//	creds, err := logon.NewWithDomain("CORP", "svc_backup", secret)
//
// # Acquisition
//
// Acquire calls the logon primitive exactly once and returns a *token.Handle
// the caller must Close. Failures are reported as *Error carrying the native
// Win32 error code:
//
//	h, err := logon.Acquire(ctx, creds, logon.Params{Type: logon.NewCredentials})
//	var le *logon.Error
//	if errors.As(err, &le) && le.IsAccountLockedOut() {
//	    ...
//	}
//	defer h.Close()
//
// Acquire never retries; repeated bad-password attempts can lock an account.
//
// # Platform Support
//
// The default Authority uses advapi32 LogonUserW on Windows. On other platforms
// it returns ErrNotSupported; tests and alternative backends can inject their
// own Authority with WithAuthority.
package logon
