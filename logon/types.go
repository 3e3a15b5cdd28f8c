package logon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParams is returned for an out-of-range logon type or provider.
var ErrInvalidParams = errors.New("logon: invalid logon parameters")

// Type is the LOGON32_LOGON_* value passed to the logon primitive.
type Type uint32

// Logon types.
const (
	// Interactive is for users who will interactively use the computer.
	// Logon information is cached for disconnected operation.
	Interactive Type = 2

	// Network is for servers authenticating plaintext passwords. Credentials
	// are not cached.
	Network Type = 3

	// Batch is for processes executing on behalf of a user without their
	// intervention.
	Batch Type = 4

	// Service requires the account to hold the service logon right.
	Service Type = 5

	// Unlock is a legacy GINA logon type.
	Unlock Type = 7

	// NetworkCleartext keeps the name and password in the authentication
	// package so the server can make further network connections.
	NetworkCleartext Type = 8

	// NewCredentials clones the caller's token and uses the new credentials
	// only for outbound network connections. Requires ProviderNegotiate.
	NewCredentials Type = 9
)

var typeNames = map[Type]string{
	Interactive:      "interactive",
	Network:          "network",
	Batch:            "batch",
	Service:          "service",
	Unlock:           "unlock",
	NetworkCleartext: "network-cleartext",
	NewCredentials:   "new-credentials",
}

// String returns the lower-case name of t.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// Valid reports whether t is a known logon type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType parses a logon type name, ignoring case. Both "new-credentials"
// and "newcredentials" are accepted.
func ParseType(s string) (Type, error) {
	key := normalizeName(s)
	for t, name := range typeNames {
		if normalizeName(name) == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown logon type %q", ErrInvalidParams, s)
}

// Provider is the LOGON32_PROVIDER_* value passed to the logon primitive.
type Provider uint32

// Logon providers.
const (
	// ProviderDefault lets the system choose. It is negotiate unless the
	// domain is omitted and the name is not a UPN, in which case it is NTLM.
	ProviderDefault Provider = 0

	// ProviderNTLM is LOGON32_PROVIDER_WINNT40.
	ProviderNTLM Provider = 2

	// ProviderNegotiate is LOGON32_PROVIDER_WINNT50.
	ProviderNegotiate Provider = 3
)

var providerNames = map[Provider]string{
	ProviderDefault:   "default",
	ProviderNTLM:      "ntlm",
	ProviderNegotiate: "negotiate",
}

// legacy LOGON32_PROVIDER_WINNTxx names.
var providerAliases = map[string]Provider{
	"winnt35": ProviderDefault,
	"winnt40": ProviderNTLM,
	"winnt50": ProviderNegotiate,
}

// String returns the lower-case name of p.
func (p Provider) String() string {
	if s, ok := providerNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Provider(%d)", uint32(p))
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	_, ok := providerNames[p]
	return ok
}

// ParseProvider parses a provider name, ignoring case. The legacy names
// winnt35, winnt40 and winnt50 are accepted.
func ParseProvider(s string) (Provider, error) {
	key := normalizeName(s)
	if p, ok := providerAliases[key]; ok {
		return p, nil
	}
	for p, name := range providerNames {
		if name == key {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown logon provider %q", ErrInvalidParams, s)
}

// Params selects how the logon is performed. The zero value means
// Interactive with ProviderDefault.
type Params struct {
	Type     Type
	Provider Provider
}

// withDefaults fills zero fields.
func (p Params) withDefaults() Params {
	if p.Type == 0 {
		p.Type = Interactive
	}
	return p
}

// Validate checks that both values are in range.
func (p Params) Validate() error {
	p = p.withDefaults()
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidParams, p.Type)
	}
	if !p.Provider.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidParams, p.Provider)
	}
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
