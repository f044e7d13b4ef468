package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/UdayKhare09/Elrond/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is a full session token, or an MFA challenge token when
// MfaRequired is set.
type LoginResult struct {
	Token       string
	MfaRequired bool
}

// Login checks the password for identifier, which is an email address when it
// contains '@' and a username otherwise.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.lookupLogin(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error loading user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash, []byte(password))
		s.log.Info(ctx, "login failed", "reason", "unknown user")
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info(ctx, "login failed", "reason", "bad password", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, common.ErrEmailNotVerified
	}

	if user.MfaEnabled {
		challenge, err := s.issuer.IssueChallenge(user.Username)
		if err != nil {
			return nil, common.ErrorInternal
		}
		s.log.Info(ctx, "login challenged for mfa", "user_id", user.ID)
		return &LoginResult{Token: challenge, MfaRequired: true}, nil
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		return nil, common.ErrorInternal
	}
	s.log.Info(ctx, "login succeeded", "user_id", user.ID)
	return &LoginResult{Token: token}, nil
}

// VerifyMfa completes a challenged login. Only a valid challenge token for a
// user with MFA enabled is accepted.
func (s *AuthService) VerifyMfa(ctx context.Context, code, challengeToken string) (string, error) {
	claims, err := s.issuer.Parse(challengeToken)
	if err != nil || !claims.Mfa {
		return "", common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidToken
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}
	if !user.MfaEnabled {
		return "", common.ErrInvalidToken
	}

	if err := s.checkCode(user, code); err != nil {
		s.log.Info(ctx, "mfa verification failed", "user_id", user.ID)
		return "", err
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		return "", common.ErrorInternal
	}
	s.log.Info(ctx, "login succeeded", "user_id", user.ID, "mfa", true)
	return token, nil
}

func (s *AuthService) lookupLogin(ctx context.Context, identifier string) (*models.User, error) {
	if identifier == "" {
		return nil, common.ErrorNotFound
	}
	users := s.repomanager.Users(s.db)
	if strings.Contains(identifier, "@") {
		return users.GetByEmail(ctx, identifier)
	}
	return users.GetByUsername(ctx, identifier)
}

// checkCode returns common.ErrInvalidCode unless code matches the user's
// stored secret now.
func (s *AuthService) checkCode(user *models.User, code string) error {
	ok, err := s.totp.VerifyCode(user.MfaSecret, strings.TrimSpace(code), s.now())
	if err != nil {
		return fmt.Errorf("error checking totp code: %w", err)
	}
	if !ok {
		return common.ErrInvalidCode
	}
	return nil
}
