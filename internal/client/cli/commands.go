package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/UdayKhare09/Elrond/internal/client/client"
	"github.com/UdayKhare09/Elrond/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

// argOrPrompt returns args[0] when present, otherwise asks for the value.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) Register(ctx context.Context, _ []string) error {
	var req client.RegisterRequest
	fields := []struct {
		dst    *string
		prompt string
	}{
		{&req.Username, "Username"},
		{&req.Email, "Email"},
		{&req.FirstName, "First name"},
		{&req.LastName, "Last name (optional)"},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return errPasswordMismatch
	}
	req.Password = string(password)

	msg, err := a.api.Register(ctx, req)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

// verificationToken accepts either a bare token or the full link from the
// verification email.
func verificationToken(s string) string {
	if !strings.Contains(s, "token=") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	if t := u.Query().Get("token"); t != "" {
		return t
	}
	return s
}

func (a *App) Verify(ctx context.Context, args []string) error {
	s, err := a.argOrPrompt(args, "Verification token or link")
	if err != nil {
		return err
	}
	msg, err := a.api.VerifyEmail(ctx, verificationToken(s))
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) Resend(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Email")
	if err != nil {
		return err
	}
	msg, err := a.api.ResendVerification(ctx, email)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

// Login asks for credentials and, when the account has MFA, for the current
// authenticator code.
func (a *App) Login(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Username or email")
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, id, string(password), "")
	if err != nil {
		return err
	}

	if res.MfaRequired {
		code, err := getSimpleText(a.reader, "Authenticator code", a.out)
		if err != nil {
			return err
		}
		if _, err := a.api.VerifyMfa(ctx, res.Token, code); err != nil {
			return err
		}
	}

	a.userName = id
	a.println("Login successful")
	if a.oneShot {
		a.println("Session token:", a.api.Token())
	}
	return nil
}

func (a *App) MfaSetup(ctx context.Context, _ []string) error {
	setup, err := a.api.SetupMfa(ctx)
	if err != nil {
		return err
	}
	a.println("Add this account to your authenticator app.")
	a.println("Secret:", setup.Secret)
	a.println("URL:", setup.OtpauthURL)
	a.println("Then run mfa-enable with the current code.")
	return nil
}

func (a *App) MfaEnable(ctx context.Context, args []string) error {
	code, err := a.argOrPrompt(args, "Authenticator code")
	if err != nil {
		return err
	}
	msg, err := a.api.EnableMfa(ctx, code)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) MfaDisable(ctx context.Context, args []string) error {
	code, err := a.argOrPrompt(args, "Authenticator code")
	if err != nil {
		return err
	}
	msg, err := a.api.DisableMfa(ctx, code)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) Me(ctx context.Context, _ []string) error {
	p, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	a.println(fmt.Sprintf("%s <%s>", p.Username, p.Email))
	a.println("Name:", name)
	a.println("MFA enabled:", p.MfaEnabled)
	return nil
}

func (a *App) Logout(context.Context, []string) error {
	a.api.SetToken("")
	a.userName = ""
	a.println("Logged out")
	return nil
}
