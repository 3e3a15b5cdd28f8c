// Package impersonation runs Go code under the identity of another Windows
// account.
//
// Credentials are exchanged for a logon token once, and the token can then
// be used for any number of scoped executions. Each execution runs on its
// own locked OS thread and always restores the thread's previous identity,
// whether the work returns, fails or panics.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  impersonate/  Scoped execution, child goroutines       │
//	├─────────────────────────────────────────────────────────┤
//	│  logon/        Credentials, secrets, logon, errors      │
//	├─────────────────────────────────────────────────────────┤
//	│  token/        Release-once token handle                │
//	├─────────────────────────────────────────────────────────┤
//	│  account/      DOMAIN\user and UPN parsing              │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	creds, err := logon.New(`CORP\svc-report`, logon.Password(pw))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = impersonate.NewRunner().RunAs(ctx, nil, creds, logon.Params{},
//	    func(ctx context.Context) error {
//	        return os.WriteFile(`\\fileserver\reports\daily.csv`, data, 0o644)
//	    })
//
// # Reusing a Token
//
//	h, err := logon.Acquire(ctx, creds, logon.Params{Type: logon.Network})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	r := impersonate.NewRunner()
//	for _, share := range shares {
//	    if err := r.Run(ctx, h, func(ctx context.Context) error {
//	        return scan(ctx, share)
//	    }); err != nil {
//	        log.Print(err)
//	    }
//	}
//
// Thread impersonation is only available on Windows. On other platforms the
// default logon primitive and identity switcher return ErrNotSupported.
package impersonation
