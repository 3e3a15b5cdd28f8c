//go:build windows

package main

import "github.com/Microsoft/go-winio"

// enablePrivileges enables names on the process token. LogonUser needs
// SeTcbPrivilege on some older systems and for S4U-style logons.
func enablePrivileges(names []string) error {
	return winio.EnableProcessPrivileges(names)
}

// lookupSID resolves an account name to its string SID.
func lookupSID(name string) (string, error) {
	return winio.LookupSidByName(name)
}
