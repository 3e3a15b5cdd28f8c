package account

import "strings"

const (
	domainSeparator = '\\'
	upnSeparator    = '@'
	separators      = `\@`
)

// NTAuthority is the domain of the built-in service accounts.
const NTAuthority = "NT AUTHORITY"

// Identifier is a normalized (domain, username) pair.
//
// The zero value is not valid; use Parse, New or WellKnown.
type Identifier struct {
	domain   string
	username string
}

// Parse normalizes a username that may embed its domain.
//
// A `DOMAIN\user` name is split once on the backslash. A `user@domain` name is
// kept whole because the logon primitive accepts UPNs directly.
func Parse(username string) (Identifier, error) {
	if strings.TrimSpace(username) == "" {
		return Identifier{}, invalid("username", "cannot be empty or consist solely of whitespace characters")
	}

	backslashes := strings.Count(username, string(domainSeparator))
	ats := strings.Count(username, string(upnSeparator))
	if backslashes == 0 && ats == 0 {
		return Identifier{username: username}, nil
	}
	if backslashes > 1 || ats > 1 {
		return Identifier{}, invalid("username", `cannot contain more than one \ or @ character`)
	}

	first, last := username[0], username[len(username)-1]
	if isSeparator(first) || isSeparator(last) {
		return Identifier{}, invalid("username", `cannot start or end with a \ or @ character`)
	}

	if backslashes == 0 {
		return Identifier{username: username}, nil
	}

	slash := strings.IndexByte(username, domainSeparator)
	if ats == 1 {
		at := strings.IndexByte(username, upnSeparator)
		if at < slash {
			return Identifier{}, invalid("username", `a \ domain prefix must precede the @ suffix`)
		}
		if at == slash+1 {
			return Identifier{}, invalid("username", `\ and @ cannot be adjacent`)
		}
	}

	domain, user, _ := strings.Cut(username, string(domainSeparator))
	if strings.TrimSpace(domain) == "" {
		return Identifier{}, invalid("domain", "cannot be empty or consist solely of whitespace characters")
	}
	if strings.TrimSpace(user) == "" {
		return Identifier{}, invalid("username", "cannot be empty or consist solely of whitespace characters")
	}
	return Identifier{domain: domain, username: user}, nil
}

// New validates a domain and username supplied separately.
func New(domain, username string) (Identifier, error) {
	if strings.TrimSpace(domain) == "" {
		return Identifier{}, invalid("domain", "cannot be empty or consist solely of whitespace characters")
	}
	if strings.TrimSpace(username) == "" {
		return Identifier{}, invalid("username", "cannot be empty or consist solely of whitespace characters")
	}
	if strings.ContainsAny(domain, separators) {
		return Identifier{}, invalid("domain", `cannot contain \ or @ characters`)
	}
	if strings.ContainsAny(username, separators) {
		return Identifier{}, invalid("username", `cannot contain \ or @ characters when domain is provided separately`)
	}
	return Identifier{domain: domain, username: username}, nil
}

// WellKnown returns the identifier of a built-in NT AUTHORITY account
// without validation.
func WellKnown(name string) Identifier {
	return Identifier{domain: NTAuthority, username: name}
}

// Domain returns the domain, or "" when none was given.
func (id Identifier) Domain() string { return id.domain }

// Username returns the username as it will be passed to the logon primitive.
func (id Identifier) Username() string { return id.username }

// HasDomain reports whether a domain is set.
func (id Identifier) HasDomain() bool { return id.domain != "" }

// IsZero reports whether id is the zero Identifier.
func (id Identifier) IsZero() bool { return id.username == "" }

// String returns the display form: username or username@domain.
func (id Identifier) String() string {
	if id.domain == "" {
		return id.username
	}
	return id.username + "@" + id.domain
}

// Qualified returns the down-level logon name: DOMAIN\username, or the bare
// username when no domain is set.
func (id Identifier) Qualified() string {
	if id.domain == "" {
		return id.username
	}
	return id.domain + `\` + id.username
}

// EqualFold reports whether two identifiers name the same account, ignoring
// case as Windows does.
func (id Identifier) EqualFold(other Identifier) bool {
	return strings.EqualFold(id.domain, other.domain) &&
		strings.EqualFold(id.username, other.username)
}

func isSeparator(c byte) bool {
	return c == domainSeparator || c == upnSeparator
}
