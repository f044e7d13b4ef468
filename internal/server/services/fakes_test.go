package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/UdayKhare09/Elrond/internal/dbx"
	"github.com/UdayKhare09/Elrond/internal/logging"
	"github.com/UdayKhare09/Elrond/internal/server/auth"
	"github.com/UdayKhare09/Elrond/internal/server/config"
	"github.com/UdayKhare09/Elrond/internal/server/models"
	"github.com/UdayKhare09/Elrond/internal/server/repositories/users"
	"github.com/UdayKhare09/Elrond/internal/server/repositories/verificationtokens"
	"github.com/UdayKhare09/Elrond/internal/server/totp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// memStore backs the fake repositories. Transactions are real (sqlite) but
// the fakes ignore the DBTX they are bound to.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	tokens map[string]*models.VerificationToken
	nextID int

	createUserErr  error
	createTokenErr error
	getErr         error
	updateErr      error
	// afterFind runs after a successful token Find, outside the lock.
	afterFind func()
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*models.User{},
		tokens: map[string]*models.VerificationToken{},
	}
}

func (s *memStore) user(t *testing.T, username string) *models.User {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			c := *u
			return &c
		}
	}
	t.Fatalf("user %q not stored", username)
	return nil
}

func (s *memStore) tokenFor(userID string) *models.VerificationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range s.tokens {
		if tok.UserID == userID {
			c := *tok
			return &c
		}
	}
	return nil
}

type fakeUsersRepo struct{ s *memStore }

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createUserErr != nil {
		return nil, f.s.createUserErr
	}
	for _, ex := range f.s.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.s.nextID++
	c := *u
	c.ID = fmt.Sprintf("u-%d", f.s.nextID)
	c.CreatedAt = time.Now()
	f.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getErr != nil {
		return nil, f.s.getErr
	}
	for _, u := range f.s.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) MarkEmailVerified(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.EmailVerified = true
	return nil
}

func (f *fakeUsersRepo) UpdateMfa(ctx context.Context, id string, secret string, enabled bool) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.updateErr != nil {
		return f.s.updateErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.MfaSecret = secret
	u.MfaEnabled = enabled
	return nil
}

type fakeTokensRepo struct{ s *memStore }

func (f *fakeTokensRepo) Create(ctx context.Context, token *models.VerificationToken) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createTokenErr != nil {
		return f.s.createTokenErr
	}
	for k, tok := range f.s.tokens {
		if tok.UserID == token.UserID {
			delete(f.s.tokens, k)
		}
	}
	c := *token
	f.s.tokens[c.Token] = &c
	return nil
}

func (f *fakeTokensRepo) Find(ctx context.Context, token string) (*models.VerificationToken, error) {
	f.s.mu.Lock()
	tok, ok := f.s.tokens[token]
	var c models.VerificationToken
	if ok {
		c = *tok
	}
	hook := f.s.afterFind
	f.s.mu.Unlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	if hook != nil {
		hook()
	}
	return &c, nil
}

func (f *fakeTokensRepo) Delete(ctx context.Context, token string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.tokens[token]; !ok {
		return false, nil
	}
	delete(f.s.tokens, token)
	return true, nil
}

func (f *fakeTokensRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for k, tok := range f.s.tokens {
		if tok.UserID == userID {
			delete(f.s.tokens, k)
		}
	}
	return nil
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return &fakeUsersRepo{s: m.s} }
func (m *fakeRepoManager) VerificationTokens(dbx.DBTX) verificationtokens.Repository {
	return &fakeTokensRepo{s: m.s}
}

type delivery struct {
	to   string
	link string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []delivery
	err  error
}

func (n *fakeNotifier) Deliver(ctx context.Context, to, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, delivery{to: to, link: link})
	return nil
}

func (n *fakeNotifier) last(t *testing.T) delivery {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "nothing delivered")
	return n.sent[len(n.sent)-1]
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	svc      *AuthService
	store    *memStore
	notifier *fakeNotifier
	clock    *clock
	issuer   *auth.Issuer
	engine   *totp.Engine
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.NotifyTimeout = time.Second
	return cfg
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestEnvWithDB(t *testing.T, db *sql.DB) *testEnv {
	t.Helper()
	cfg := testConfig()
	clk := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := newMemStore()
	notifier := &fakeNotifier{}
	issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration, cfg.MfaTokenValidityDuration, auth.WithClock(clk.Now))
	engine := totp.NewEngine(cfg.TOTPIssuer)

	svc, err := NewAuthService(db, &fakeRepoManager{s: store}, issuer, engine, notifier, cfg, logging.Nop{}, WithClock(clk.Now))
	require.NoError(t, err)

	return &testEnv{svc: svc, store: store, notifier: notifier, clock: clk, issuer: issuer, engine: engine}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, newTestDB(t))
}

const strongPassword = "Tr0ub4dor&3-horse"

func aliceRequest() RegisterRequest {
	return RegisterRequest{
		Username:  "alice",
		Email:     "a@x.io",
		Password:  strongPassword,
		FirstName: "Alice",
	}
}

// register creates a user and returns the token from the delivered link.
func (e *testEnv) register(t *testing.T, req RegisterRequest) (*models.User, string) {
	t.Helper()
	u, err := e.svc.Register(context.Background(), req)
	require.NoError(t, err)
	return u, e.tokenFromLink(t)
}

func (e *testEnv) tokenFromLink(t *testing.T) string {
	t.Helper()
	link := e.notifier.last(t).link
	const marker = "?token="
	i := len(link) - 64
	require.Equal(t, marker, link[i-len(marker):i], "unexpected link %q", link)
	return link[i:]
}

// verifiedUser registers and verifies alice.
func (e *testEnv) verifiedUser(t *testing.T) *models.User {
	t.Helper()
	u, tok := e.register(t, aliceRequest())
	require.NoError(t, e.svc.VerifyEmail(context.Background(), tok))
	return u
}

// mfaUser returns alice with MFA enabled and her secret.
func (e *testEnv) mfaUser(t *testing.T) (*models.User, string) {
	t.Helper()
	u := e.verifiedUser(t)
	setup, err := e.svc.SetupMfa(context.Background(), u.Username)
	require.NoError(t, err)
	require.NoError(t, e.svc.EnableMfa(context.Background(), u.Username, e.code(t, setup.Secret)))
	return u, setup.Secret
}

func (e *testEnv) code(t *testing.T, secret string) string {
	t.Helper()
	c, err := e.engine.GenerateCode(secret, e.clock.Now())
	require.NoError(t, err)
	return c
}

// wrongCode returns a well-formed code that is not accepted at the current
// time, including the skew window.
func (e *testEnv) wrongCode(t *testing.T, secret string) string {
	t.Helper()
	valid := map[string]bool{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		c, err := e.engine.GenerateCode(secret, e.clock.Now().Add(d))
		require.NoError(t, err)
		valid[c] = true
	}
	for i := 0; ; i++ {
		c := fmt.Sprintf("%06d", i)
		if !valid[c] {
			return c
		}
	}
}
