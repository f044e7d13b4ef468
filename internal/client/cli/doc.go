// Package cli is the Elrond command-line client.
//
// With a command argument it runs that command once and exits; without one
// it starts a prompt loop that keeps the session token between commands.
// Commands: register, verify, resend, login, mfa-setup, mfa-enable,
// mfa-disable, me, logout.
package cli
