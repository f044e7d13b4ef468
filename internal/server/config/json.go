package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/UdayKhare09/Elrond/internal/flagx"
	"github.com/UdayKhare09/Elrond/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations accept strings such
// as "24h" as well as integer nanoseconds (timex.Duration). Only keys present
// in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP                  string         `json:"endpoint_addr_http"`
	DatabaseDSN                       string         `json:"database_dsn"`
	SecretKey                         string         `json:"secret_key"`
	TokenValidityDuration             timex.Duration `json:"token_validity_duration"`
	MfaTokenValidityDuration          timex.Duration `json:"mfa_token_validity_duration"`
	VerificationTokenValidityDuration timex.Duration `json:"verification_token_validity_duration"`
	BcryptCost                        int            `json:"bcrypt_cost"`
	PasswordMinEntropyBits            float64        `json:"password_min_entropy_bits"`
	TOTPIssuer                        string         `json:"totp_issuer"`
	AppURL                            string         `json:"app_url"`
	SMTPHost                          string         `json:"smtp_host"`
	SMTPPort                          int            `json:"smtp_port"`
	SMTPUsername                      string         `json:"smtp_username"`
	SMTPPassword                      string         `json:"smtp_password"`
	MailFrom                          string         `json:"mail_from"`
	NotifyTimeout                     timex.Duration `json:"notify_timeout"`
	LogLevel                          string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config (or $ELROND_CONFIG) into
// config. No file configured is not an error.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TOTPIssuer, c.TOTPIssuer)
	setString(&config.AppURL, c.AppURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUsername, c.SMTPUsername)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.MfaTokenValidityDuration.Duration != 0 {
		config.MfaTokenValidityDuration = c.MfaTokenValidityDuration.Duration
	}
	if c.VerificationTokenValidityDuration.Duration != 0 {
		config.VerificationTokenValidityDuration = c.VerificationTokenValidityDuration.Duration
	}
	if c.NotifyTimeout.Duration != 0 {
		config.NotifyTimeout = c.NotifyTimeout.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.PasswordMinEntropyBits != 0 {
		config.PasswordMinEntropyBits = c.PasswordMinEntropyBits
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
