// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account.
//
// EmailVerified false means the account is pending verification; once true
// it never goes back. MfaEnabled implies MfaSecret is set and was confirmed
// with a valid code.
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	EmailVerified bool
	MfaEnabled    bool
	// MfaSecret is the Base32 TOTP secret, empty until setup.
	MfaSecret string
	CreatedAt time.Time
}
