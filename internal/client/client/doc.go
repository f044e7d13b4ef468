// Package client talks to the Elrond HTTP API.
//
// Client keeps the session token returned by Login or VerifyMfa and sends it
// as a bearer token on the MFA and profile calls. Non-2xx responses come back
// as *APIError; transport failures wrap ErrUnavailable.
package client
