package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UdayKhare09/Elrond/internal/common"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	MfaRequired bool   `json:"mfaRequired"`
}

type MfaSetup struct {
	Secret     string `json:"secret"`
	QRCodeURL  string `json:"qrCodeUrl"`
	OtpauthURL string `json:"otpauthUrl"`
}

type Profile struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	MfaEnabled bool   `json:"mfaEnabled"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, false)
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	path := common.VerifyEmailPath + "?token=" + url.QueryEscape(token)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/resend-verification", body, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login authenticates with a username or email. When the account has MFA
// and totpCode is empty the result carries a challenge token and
// MfaRequired; otherwise the session token is kept for later calls.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password, totpCode string) (*LoginResponse, error) {
	body := map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}
	if totpCode != "" {
		body["totpCode"] = totpCode
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp, false); err != nil {
		return nil, err
	}
	if !resp.MfaRequired {
		c.token = resp.Token
	}
	return &resp, nil
}

// VerifyMfa exchanges a challenge token and a TOTP code for a session token.
func (c *Client) VerifyMfa(ctx context.Context, mfaToken, totpCode string) (string, error) {
	var resp LoginResponse
	body := map[string]string{"mfaToken": mfaToken, "totpCode": totpCode}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/mfa/verify", body, &resp, false); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) SetupMfa(ctx context.Context) (*MfaSetup, error) {
	var resp MfaSetup
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/mfa/setup", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EnableMfa(ctx context.Context, totpCode string) (string, error) {
	return c.mfaToggle(ctx, "/api/v1/auth/mfa/enable", totpCode)
}

func (c *Client) DisableMfa(ctx context.Context, totpCode string) (string, error) {
	return c.mfaToggle(ctx, "/api/v1/auth/mfa/disable", totpCode)
}

func (c *Client) mfaToggle(ctx context.Context, path, totpCode string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, path+"?totpCode="+url.QueryEscape(totpCode), nil, &resp, true); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var resp Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/me", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authenticated bool) error {
	if authenticated && c.token == "" {
		return ErrNoSession
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
