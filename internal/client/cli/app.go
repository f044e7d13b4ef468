package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/UdayKhare09/Elrond/internal/client/client"
	"github.com/UdayKhare09/Elrond/internal/client/config"
)

// API is the server surface the commands use. *client.Client satisfies it.
type API interface {
	Register(ctx context.Context, req client.RegisterRequest) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, usernameOrEmail, password, totpCode string) (*client.LoginResponse, error)
	VerifyMfa(ctx context.Context, mfaToken, totpCode string) (string, error)
	SetupMfa(ctx context.Context) (*client.MfaSetup, error)
	EnableMfa(ctx context.Context, totpCode string) (string, error)
	DisableMfa(ctx context.Context, totpCode string) (string, error)
	Me(ctx context.Context) (*client.Profile, error)
	Token() string
	SetToken(token string)
}

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	api      API
	reader   *bufio.Reader
	out      io.Writer
	userName string
	// oneShot prints the session token after login so it can be exported
	// as ELROND_TOKEN for the next invocation.
	oneShot bool
}

func NewApp(c *config.Config) *App {
	api := client.New(c.ServerURL, c.RequestTimeout)
	api.SetToken(c.Token)
	return newApp(api, os.Stdin, os.Stdout)
}

func newApp(api API, in io.Reader, out io.Writer) *App {
	return &App{api: api, reader: bufio.NewReader(in), out: out}
}

// Run executes args as a single command, or starts the prompt loop when args
// is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Elrond CLI (type 'help' for commands)")
		runREPL(ctx, a, a.getStatus, a.reader)
		return nil
	}
	a.oneShot = true
	return dispatch(ctx, a, args[0], args[1:])
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
