//go:build !windows

package main

import "github.com/smnsjas/go-impersonate/logon"

func enablePrivileges([]string) error { return logon.ErrNotSupported }

func lookupSID(string) (string, error) { return "", logon.ErrNotSupported }
