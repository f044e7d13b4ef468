package services

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/UdayKhare09/Elrond/internal/dbx"
	"github.com/UdayKhare09/Elrond/internal/server/mail"
	"github.com/UdayKhare09/Elrond/internal/server/models"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes
	maxPasswordLen = 72
	tokenBytes     = 32
)

// RegisterRequest is the input to Register. LastName is optional.
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates an unverified account and sends its verification link.
//
// The user and the token are written in one transaction. If delivery fails
// afterwards the created user is still returned, together with an error
// matching common.ErrNotificationFailed.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	if err := s.checkIdentityFree(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	var token *models.VerificationToken
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrDuplicateUser
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		user = created
		token, err = s.issueVerificationToken(ctx, tx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "username", user.Username, "user_id", user.ID)

	if err := s.sendVerification(ctx, user.Email, token.Token); err != nil {
		return user, err
	}
	return user, nil
}

// VerifyEmail consumes token and marks its owner verified. A token can be
// consumed once; expired tokens are rejected and left for Resend to replace.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrTokenNotFound
	}

	vt, err := s.repomanager.VerificationTokens(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrTokenNotFound
		}
		return fmt.Errorf("error searching verification token: %w", err)
	}
	if vt.Expired(s.now()) {
		return common.ErrTokenExpired
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		removed, err := s.repomanager.VerificationTokens(tx).Delete(ctx, token)
		if err != nil {
			return fmt.Errorf("error deleting verification token: %w", err)
		}
		if !removed {
			// consumed concurrently
			return common.ErrTokenNotFound
		}
		if err := s.repomanager.Users(tx).MarkEmailVerified(ctx, vt.UserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error marking email verified: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "email verified", "user_id", vt.UserID)
	return nil
}

// ResendVerification replaces the outstanding token of an unverified account
// and sends a new link. Already verified accounts are left alone.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	var token *models.VerificationToken
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		token, err = s.issueVerificationToken(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "verification reissued", "user_id", user.ID)
	return s.sendVerification(ctx, user.Email, token.Token)
}

func (s *AuthService) validateRegistration(req RegisterRequest) error {
	var problems []string

	switch n := len(req.Username); {
	case n < minUsernameLen || n > maxUsernameLen:
		problems = append(problems, fmt.Sprintf("username must be %d to %d characters", minUsernameLen, maxUsernameLen))
	case strings.ContainsAny(req.Username, "@ \t\r\n"):
		problems = append(problems, "username must not contain '@' or whitespace")
	}

	if addr, err := netmail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		problems = append(problems, "email is not a valid address")
	}

	if req.FirstName == "" {
		problems = append(problems, "first name is required")
	}

	switch {
	case len(req.Password) < minPasswordLen:
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	case len(req.Password) > maxPasswordLen:
		problems = append(problems, fmt.Sprintf("password must be at most %d bytes", maxPasswordLen))
	default:
		if err := passwordvalidator.Validate(req.Password, s.minEntropyBits); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(problems, "; "))
	}
	return nil
}

// checkIdentityFree gives a clean duplicate error before hashing. The unique
// constraints still decide races.
func (s *AuthService) checkIdentityFree(ctx context.Context, username, email string) error {
	users := s.repomanager.Users(s.db)

	if _, err := users.GetByUsername(ctx, username); err == nil {
		return common.ErrDuplicateUser
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error checking username: %w", err)
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return common.ErrDuplicateUser
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error checking email: %w", err)
	}
	return nil
}

// issueVerificationToken supersedes any previous token of userID. Must run
// inside the caller's transaction.
func (s *AuthService) issueVerificationToken(ctx context.Context, tx dbx.DBTX, userID string) (*models.VerificationToken, error) {
	value, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating verification token: %w", err)
	}

	tokens := s.repomanager.VerificationTokens(tx)
	if err := tokens.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("error deleting stale verification tokens: %w", err)
	}

	now := s.now()
	token := &models.VerificationToken{
		Token:     value,
		UserID:    userID,
		ExpiresAt: now.Add(s.verificationTTL),
		CreatedAt: now,
	}
	if err := tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("error storing verification token: %w", err)
	}
	return token, nil
}

func (s *AuthService) sendVerification(ctx context.Context, email, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Deliver(ctx, email, mail.BuildVerificationLink(s.appURL, token)); err != nil {
		s.log.Warn(ctx, "verification email failed", "to", email, "error", err)
		return fmt.Errorf("%w: %w", common.ErrNotificationFailed, err)
	}
	return nil
}
