package logon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smnsjas/go-impersonate/token"
)

// Acquirer logs credentials on through an Authority.
//
// An Acquirer holds no mutable state and is safe for concurrent use.
type Acquirer struct {
	authority Authority
	logger    *slog.Logger
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithAuthority replaces the platform logon primitive.
func WithAuthority(a Authority) Option {
	return func(acq *Acquirer) {
		acq.authority = a
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(acq *Acquirer) {
		acq.logger = l
	}
}

// NewAcquirer creates an Acquirer.
func NewAcquirer(opts ...Option) *Acquirer {
	a := &Acquirer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.authority == nil {
		a.authority = DefaultAuthority()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Acquire logs on with the platform Authority. See Acquirer.Acquire.
func Acquire(ctx context.Context, c *Credentials, params Params) (*token.Handle, error) {
	return NewAcquirer().Acquire(ctx, c, params)
}

// Acquire calls the logon primitive once and returns a handle to the new
// token. The caller owns the handle and must Close it.
//
// Failures of the primitive are returned as *Error. Acquire never retries.
func (a *Acquirer) Acquire(ctx context.Context, c *Credentials, params Params) (*token.Handle, error) {
	if c == nil {
		return nil, errors.New("logon: credentials are nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params = params.withDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	req := &Request{
		Username: c.id.Username(),
		Domain:   c.id.Domain(),
		Type:     params.Type,
		Provider: params.Provider,
	}

	var (
		raw      token.Raw
		logonErr error
	)
	revealErr := c.secret.reveal(func(pw []uint16) error {
		req.Password = pw
		raw, logonErr = a.authority.LogonUser(req)
		req.Password = nil
		return nil
	})
	if revealErr != nil {
		return nil, fmt.Errorf("logon: read secret: %w", revealErr)
	}

	if logonErr != nil {
		// logonErr already carries the native code captured by the
		// Authority, so closing a leaked token below cannot clobber it.
		if raw.IsValid() {
			if err := a.authority.CloseHandle(raw); err != nil {
				a.logger.Warn("close token after failed logon", "account", c.id.String(), "error", err)
			}
		}

		if errors.Is(logonErr, ErrNotSupported) {
			return nil, logonErr
		}

		le := FromError(logonErr)
		a.logger.Debug("logon failed",
			"account", c.id.String(),
			"logonType", params.Type.String(),
			"provider", params.Provider.String(),
			"code", le.Code)
		return nil, le
	}

	if !raw.IsValid() {
		return nil, fmt.Errorf("logon: primitive reported success without a token: %w", token.ErrInvalid)
	}

	a.logger.Debug("logon succeeded",
		"account", c.id.String(),
		"logonType", params.Type.String(),
		"provider", params.Provider.String())
	return token.New(raw, a.authority.CloseHandle), nil
}
