package logon

import (
	"log/slog"

	"github.com/smnsjas/go-impersonate/account"
)

// Credentials is an immutable account identifier plus secret.
type Credentials struct {
	id     account.Identifier
	secret Secret
}

// New creates credentials from a username that may embed its domain as
// DOMAIN\user or user@domain. Without a domain a local account is assumed.
func New(username string, secret Secret) (*Credentials, error) {
	id, err := account.Parse(username)
	if err != nil {
		return nil, err
	}
	if err := validateSecret(secret); err != nil {
		return nil, err
	}
	return &Credentials{id: id, secret: secret}, nil
}

// NewWithDomain creates credentials from a separately supplied domain and
// username. Use "." as the domain for the local machine.
func NewWithDomain(domain, username string, secret Secret) (*Credentials, error) {
	id, err := account.New(domain, username)
	if err != nil {
		return nil, err
	}
	if err := validateSecret(secret); err != nil {
		return nil, err
	}
	return &Credentials{id: id, secret: secret}, nil
}

// NetworkService returns credentials for NT AUTHORITY\NETWORK SERVICE.
func NetworkService() *Credentials { return wellKnown("NETWORK SERVICE") }

// LocalSystem returns credentials for NT AUTHORITY\SYSTEM.
func LocalSystem() *Credentials { return wellKnown("SYSTEM") }

// LocalService returns credentials for NT AUTHORITY\LOCAL SERVICE.
func LocalService() *Credentials { return wellKnown("LOCAL SERVICE") }

// wellKnown skips validation: the values are constant and the built-in
// accounts have no password.
func wellKnown(name string) *Credentials {
	return &Credentials{id: account.WellKnown(name), secret: Password("")}
}

// Identifier returns the normalized account identifier.
func (c *Credentials) Identifier() account.Identifier {
	return c.id
}

// String returns username or username@domain. It never includes the secret.
func (c *Credentials) String() string {
	return c.id.String()
}

// GoString implements fmt.GoStringer so %#v cannot print the secret.
func (c *Credentials) GoString() string {
	return "logon.Credentials{" + c.id.String() + "}"
}

// LogValue implements slog.LogValuer.
func (c *Credentials) LogValue() slog.Value {
	return slog.StringValue(c.id.String())
}

func validateSecret(s Secret) error {
	if s == nil {
		return ErrNilSecret
	}
	return s.validate()
}
