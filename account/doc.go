// Package account parses and validates the account names accepted by the
// Windows logon primitive.
//
// # Accepted Forms
//
// A username may be supplied on its own or together with a separate domain:
//
//	account.Parse("user")                // local account, no domain
//	account.Parse(`DOMAIN\user`)         // split into DOMAIN + user
//	account.Parse("user@domain.com")     // UPN, passed through unsplit
//	account.Parse(`PROVIDER\user@realm`) // prefix split, UPN suffix kept
//	account.New("DOMAIN", "user")        // domain supplied separately
//
// When the domain is supplied separately, neither value may contain a
// separator. A combined username may contain at most one `\` and at most one
// `@`, the `\` must come first, and no separator may start or end the name.
//
// Invalid input fails with an error matching [ErrInvalidIdentifier] and never
// reaches the logon primitive.
package account
