// Package common defines shared constants and sentinel errors used across
// the server, the HTTP transport and the client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Account lifecycle errors.
	ErrDuplicateUser      = errors.New("username or email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")

	// Verification token errors.
	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Session token errors (bad signature, malformed, wrong flavor).
	ErrInvalidToken = errors.New("invalid token")

	// Second factor errors.
	ErrInvalidCode       = errors.New("invalid totp code")
	ErrMfaNotSetUp       = errors.New("mfa not set up")
	ErrMfaNotEnabled     = errors.New("mfa not enabled")
	ErrMfaAlreadyEnabled = errors.New("mfa already enabled")

	// Outbound delivery errors. The account stays registered.
	ErrNotificationFailed = errors.New("notification failed")
)
