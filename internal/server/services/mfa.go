package services

import (
	"context"
	"fmt"

	"github.com/UdayKhare09/Elrond/internal/common"
)

// MfaSetup is returned once by SetupMfa; the secret is not retrievable later.
type MfaSetup struct {
	Secret string
	URL    string
	QRCode string
}

// SetupMfa stores a new, not yet enabled, secret for username. It is refused
// while MFA is enabled; disable first to rotate.
func (s *AuthService) SetupMfa(ctx context.Context, username string) (*MfaSetup, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.MfaEnabled {
		return nil, common.ErrMfaAlreadyEnabled
	}

	key, err := s.totp.GenerateSecret(user.Username)
	if err != nil {
		return nil, fmt.Errorf("error generating totp secret: %w", err)
	}
	if err := s.repomanager.Users(s.db).UpdateMfa(ctx, user.ID, key.Secret, false); err != nil {
		return nil, fmt.Errorf("error storing totp secret: %w", err)
	}

	s.log.Info(ctx, "mfa setup started", "user_id", user.ID)
	return &MfaSetup{Secret: key.Secret, URL: key.URL, QRCode: key.QRCode}, nil
}

// EnableMfa turns MFA on once code proves the authenticator holds the secret.
func (s *AuthService) EnableMfa(ctx context.Context, username, code string) error {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return err
	}
	if user.MfaSecret == "" {
		return common.ErrMfaNotSetUp
	}
	if err := s.checkCode(user, code); err != nil {
		return err
	}
	if user.MfaEnabled {
		return nil
	}

	if err := s.repomanager.Users(s.db).UpdateMfa(ctx, user.ID, user.MfaSecret, true); err != nil {
		return fmt.Errorf("error enabling mfa: %w", err)
	}
	s.log.Info(ctx, "mfa enabled", "user_id", user.ID)
	return nil
}

// DisableMfa turns MFA off and forgets the secret.
func (s *AuthService) DisableMfa(ctx context.Context, username, code string) error {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return err
	}
	if !user.MfaEnabled {
		return common.ErrMfaNotEnabled
	}
	if err := s.checkCode(user, code); err != nil {
		return err
	}

	if err := s.repomanager.Users(s.db).UpdateMfa(ctx, user.ID, "", false); err != nil {
		return fmt.Errorf("error disabling mfa: %w", err)
	}
	s.log.Info(ctx, "mfa disabled", "user_id", user.ID)
	return nil
}
