// Package services contains server-side business logic. AuthService owns the
// account lifecycle: registration and email verification, password login with
// an optional TOTP second factor, and MFA enrollment.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/UdayKhare09/Elrond/internal/logging"
	"github.com/UdayKhare09/Elrond/internal/server/auth"
	"github.com/UdayKhare09/Elrond/internal/server/config"
	"github.com/UdayKhare09/Elrond/internal/server/mail"
	"github.com/UdayKhare09/Elrond/internal/server/models"
	"github.com/UdayKhare09/Elrond/internal/server/repositories/repomanager"
	"github.com/UdayKhare09/Elrond/internal/server/totp"
	"golang.org/x/crypto/bcrypt"
)

// AuthService holds only immutable collaborators and settings; concurrent
// calls are safe and rely on store constraints for per-user races.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	totp        *totp.Engine
	notifier    mail.Notifier
	log         logging.Logger
	now         func() time.Time

	verificationTTL   time.Duration
	bcryptCost        int
	minEntropyBits    float64
	appURL            string
	notifyTimeout     time.Duration
	dummyPasswordHash []byte
}

// Option customizes an AuthService.
type Option func(*AuthService)

// WithClock replaces time.Now for token expiry and TOTP checks.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService wires the service from its collaborators and server config.
func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	issuer *auth.Issuer,
	engine *totp.Engine,
	notifier mail.Notifier,
	cfg *config.Config,
	log logging.Logger,
	opts ...Option,
) (*AuthService, error) {
	// Login compares unknown users against this hash.
	dummy, err := bcrypt.GenerateFromPassword([]byte("elrond-no-such-user"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	s := &AuthService{
		db:                db,
		repomanager:       m,
		issuer:            issuer,
		totp:              engine,
		notifier:          notifier,
		log:               log,
		now:               time.Now,
		verificationTTL:   cfg.VerificationTokenValidityDuration,
		bcryptCost:        cfg.BcryptCost,
		minEntropyBits:    cfg.PasswordMinEntropyBits,
		appURL:            cfg.AppURL,
		notifyTimeout:     cfg.NotifyTimeout,
		dummyPasswordHash: dummy,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Profile returns the stored account for username.
func (s *AuthService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.userByName(ctx, username)
}

func (s *AuthService) userByName(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}
