package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UdayKhare09/Elrond/internal/client/client"
)

// printlnFn is a test seam for prompt loop output.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface is the command surface of the prompt loop. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Resend(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	MfaSetup(ctx context.Context, args []string) error
	MfaEnable(ctx context.Context, args []string) error
	MfaDisable(ctx context.Context, args []string) error
	Me(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx, args)
	case "verify":
		return a.Verify(ctx, args)
	case "resend":
		return a.Resend(ctx, args)
	case "login":
		return a.Login(ctx, args)
	case "mfa-setup":
		return a.MfaSetup(ctx, args)
	case "mfa-enable":
		return a.MfaEnable(ctx, args)
	case "mfa-disable":
		return a.MfaDisable(ctx, args)
	case "me":
		return a.Me(ctx, args)
	case "logout":
		return a.Logout(ctx, args)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

// runREPL reads commands from reader until EOF, "exit" or "quit". Command
// errors are printed and the loop continues. Commands prompt on the same
// reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("elrond %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, mfa-setup, mfa-enable, mfa-disable, logout, exit")
			} else {
				printlnFn("Available commands: register, verify, resend, login, exit")
			}
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			if err := dispatch(ctx, a, cmd, parts[1:]); err != nil {
				printlnFn("error:", describe(err))
			}
		}
	}
}

// describe turns an error into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrNoSession):
		return "not logged in, run login first"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
