package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newIssuer(c *clock) *Issuer {
	return NewIssuer(secret, 24*time.Hour, 5*time.Minute, WithClock(c.Now))
}

func TestIssue_FullToken(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	iss := newIssuer(c)

	tok, err := iss.Issue("alice")
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.False(t, claims.Mfa)
	assert.Equal(t, c.t.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, c.t.Unix(), claims.IssuedAt.Unix())

	assert.True(t, iss.IsFull(tok))
	assert.False(t, iss.IsChallenge(tok))
	assert.True(t, iss.Validate(tok, "alice"))
	assert.False(t, iss.Validate(tok, "bob"))

	name, err := iss.Username(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestIssue_FullTokenOmitsMfaClaim(t *testing.T) {
	t.Parallel()
	iss := newIssuer(&clock{t: time.Now()})

	tok, err := iss.Issue("alice")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	_, present := claims["mfa"]
	assert.False(t, present)
}

func TestIssueChallenge(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	iss := newIssuer(c)

	tok, err := iss.IssueChallenge("alice")
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.True(t, claims.Mfa)
	assert.Equal(t, c.t.Add(5*time.Minute).Unix(), claims.ExpiresAt.Unix())

	assert.True(t, iss.IsChallenge(tok))
	assert.False(t, iss.IsFull(tok))
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	iss := newIssuer(c)

	full, err := iss.Issue("alice")
	require.NoError(t, err)
	challenge, err := iss.IssueChallenge("alice")
	require.NoError(t, err)

	c.t = c.t.Add(6 * time.Minute)
	_, err = iss.Parse(challenge)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.False(t, iss.IsChallenge(challenge))
	assert.True(t, iss.IsFull(full))

	c.t = c.t.Add(24 * time.Hour)
	assert.False(t, iss.Validate(full, "alice"))
	assert.False(t, iss.IsFull(full))
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()
	now := time.Now()
	iss := newIssuer(&clock{t: now})

	other := NewIssuer([]byte("another-secret-another-secret-123"), time.Hour, time.Minute)
	foreign, err := other.Issue("alice")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString(secret)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)

	good, err := iss.Issue("alice")
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]string{
		"wrong key":     foreign,
		"alg none":      none,
		"no expiry":     noExp,
		"no subject":    noSub,
		"malformed":     "not.a.jwt",
		"empty":         "",
		"tampered body": tampered,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Parse(tok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidToken))
			assert.False(t, errors.Is(err, common.ErrTokenExpired))
			assert.False(t, iss.IsFull(tok))
			assert.False(t, iss.IsChallenge(tok))
			assert.False(t, iss.Validate(tok, "alice"))
		})
	}
}

func TestNewIssuer_CopiesSecret(t *testing.T) {
	t.Parallel()
	key := []byte("0123456789abcdef0123456789abcdef")
	iss := NewIssuer(key, time.Hour, time.Minute)

	tok, err := iss.Issue("alice")
	require.NoError(t, err)

	key[0] = 'X'
	assert.True(t, iss.IsFull(tok))
}
