// Package users declares the account store contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/UdayKhare09/Elrond/internal/server/models"
)

// Repository persists user accounts. Lookups that match nothing return
// common.ErrorNotFound; a username or email collision on Create returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id string) error
	// UpdateMfa stores the TOTP secret and enabled flag in one statement.
	UpdateMfa(ctx context.Context, id string, secret string, enabled bool) error
}
