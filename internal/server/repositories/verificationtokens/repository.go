// Package verificationtokens declares the server-side repository contract for
// email verification tokens in persistent storage.
package verificationtokens

import (
	"context"

	"github.com/UdayKhare09/Elrond/internal/server/models"
)

// Repository stores at most one verification token per user.
type Repository interface {
	// Create stores token, replacing any token already held by the same user.
	Create(ctx context.Context, token *models.VerificationToken) error

	// Find returns the token row or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.VerificationToken, error)

	// Delete removes the token and reports whether a row was removed. Two
	// concurrent callers for the same token cannot both get true.
	Delete(ctx context.Context, token string) (bool, error)

	// DeleteByUser removes whatever token userID holds. No token is not an error.
	DeleteByUser(ctx context.Context, userID string) error
}
