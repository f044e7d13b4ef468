// Package auth issues and validates the HS256 session tokens handed out at
// login. Two kinds exist: full tokens that authorize protected operations and
// short-lived MFA challenge tokens that are only good for completing a login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the mfa marker. Subject is the
// username.
type Claims struct {
	jwt.RegisteredClaims
	Mfa bool `json:"mfa,omitempty"`
}

// Issuer signs and verifies tokens with a single key. It is immutable after
// construction and safe for concurrent use.
type Issuer struct {
	secret       []byte
	fullTTL      time.Duration
	challengeTTL time.Duration
	now          func() time.Time
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now for both issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(secret []byte, fullTTL, challengeTTL time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		secret:       append([]byte(nil), secret...),
		fullTTL:      fullTTL,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Issue returns a full session token for username.
func (i *Issuer) Issue(username string) (string, error) {
	return i.sign(username, i.fullTTL, false)
}

// IssueChallenge returns an MFA challenge token for username.
func (i *Issuer) IssueChallenge(username string) (string, error) {
	return i.sign(username, i.challengeTTL, true)
}

func (i *Issuer) sign(username string, ttl time.Duration, mfa bool) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Mfa: mfa,
	})

	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse verifies signature and expiry and returns the claims. Every failure
// matches common.ErrInvalidToken; an expired token also matches
// common.ErrTokenExpired.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// Username returns the subject of a valid token.
func (i *Issuer) Username(tokenString string) (string, error) {
	claims, err := i.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsChallenge reports whether tokenString is a valid MFA challenge token.
func (i *Issuer) IsChallenge(tokenString string) bool {
	claims, err := i.Parse(tokenString)
	return err == nil && claims.Mfa
}

// IsFull reports whether tokenString is a valid full session token.
func (i *Issuer) IsFull(tokenString string) bool {
	claims, err := i.Parse(tokenString)
	return err == nil && !claims.Mfa
}

// Validate reports whether tokenString is valid and was issued to username.
func (i *Issuer) Validate(tokenString, username string) bool {
	claims, err := i.Parse(tokenString)
	return err == nil && claims.Subject == username
}
