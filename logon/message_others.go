//go:build !windows

package logon

import "fmt"

// messages mirrors the system message table for the codes LogonUser returns.
var messages = map[uint32]string{
	CodeAccessDenied:          "Access is denied.",
	CodeDowngradeDetected:     "The system cannot contact a domain controller to service the authentication request. Please try again later.",
	CodeNoLogonServers:        "There are currently no logon servers available to service the logon request.",
	CodeNoSuchLogonSession:    "A specified logon session does not exist. It may already have been terminated.",
	CodePrivilegeNotHeld:      "A required privilege is not held by the client.",
	CodeLogonFailure:          "The user name or password is incorrect.",
	CodeAccountRestriction:    "Account restrictions are preventing this user from signing in. For example: blank passwords aren't allowed, sign-in times are limited, or a policy restriction has been enforced.",
	CodeInvalidLogonHours:     "Your account has time restrictions that keep you from signing in right now.",
	CodeInvalidWorkstation:    "This user isn't allowed to sign in to this computer.",
	CodePasswordExpired:       "The specified account password has expired.",
	CodeAccountDisabled:       "This user can't sign in because this account is currently disabled.",
	CodeLogonNotGrantedPolicy: "Logon failure: the user has not been granted the requested logon type at this computer.",
	CodeLogonTypeNotGranted:   "Logon failure: the user has not been granted the requested logon type at this computer.",
	CodeNoTrustSAMAccount:     "The SAM database on the Windows Server does not have a computer account for this workstation trust relationship.",
	CodeTrustFailure:          "The trust relationship between this workstation and the primary domain failed.",
	CodeAccountExpired:        "The user's account has expired.",
	CodePasswordMustChange:    "The user's password must be changed before signing in.",
	CodeAccountLockedOut:      "The referenced account is currently locked out and may not be logged on to.",
}

// message looks code up in the built-in table.
func message(code uint32) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return fmt.Sprintf("Win32 error %d", code)
}
