// Package totp generates and checks RFC 6238 time-based one-time passwords
// (SHA1, 6 digits, 30 second steps) on top of github.com/pquerna/otp.
package totp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	secretSize = 20 // 160 bits
	period     = 30
	skew       = 1
	qrSize     = 200
)

var validateOpts = totp.ValidateOpts{
	Period:    period,
	Skew:      skew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Key is a freshly generated TOTP secret with its provisioning data.
type Key struct {
	// Secret is the Base32 shared secret.
	Secret string
	// URL is the otpauth:// provisioning URI.
	URL string
	// QRCode is a data:image/png;base64 rendering of URL.
	QRCode string
}

// Engine is stateless apart from the issuer name shown in authenticator apps.
type Engine struct {
	issuer string
}

func NewEngine(issuer string) *Engine {
	return &Engine{issuer: issuer}
}

// GenerateSecret creates a new random secret for accountName.
func (e *Engine) GenerateSecret(accountName string) (*Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: accountName,
		Period:      period,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	return &Key{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyCode reports whether code matches secret at the given instant,
// allowing one step of clock drift either way. A code that is not six digits
// is simply wrong; only a malformed secret yields an error.
func (e *Engine) VerifyCode(secret, code string, at time.Time) (bool, error) {
	if !wellFormed(code) {
		return false, nil
	}
	ok, err := totp.ValidateCustom(code, secret, at, validateOpts)
	if err != nil {
		return false, fmt.Errorf("validate totp code: %w", err)
	}
	return ok, nil
}

// GenerateCode returns the code for secret at the given instant.
func (e *Engine) GenerateCode(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, at, validateOpts)
	if err != nil {
		return "", fmt.Errorf("generate totp code: %w", err)
	}
	return code, nil
}

func wellFormed(code string) bool {
	if len(code) != otp.DigitsSix.Length() {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
