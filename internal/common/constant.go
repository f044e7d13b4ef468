package common

const (
	// AuthorizationHeaderName carries the bearer session token on requests
	// to protected endpoints.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// VerifyEmailPath is the public endpoint a verification link points at.
	VerifyEmailPath = "/api/v1/auth/verify-email"
)
