package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elrond.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Setenv("ELROND_CONFIG", "")

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":                   "auth.example:9000",
		"database_dsn":                         "postgres://elrond",
		"secret_key":                           "my_secret_key",
		"token_validity_duration":              "12h",
		"mfa_token_validity_duration":          "2m",
		"verification_token_validity_duration": "48h",
		"bcrypt_cost":                          12,
		"totp_issuer":                          "Elrond Staging",
		"smtp_host":                            "smtp.example.com",
		"smtp_port":                            465,
		"notify_timeout":                       "3s",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "auth.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://elrond", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 12*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, 2*time.Minute, cfg.MfaTokenValidityDuration)
		assert.Equal(t, 48*time.Hour, cfg.VerificationTokenValidityDuration)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, "Elrond Staging", cfg.TOTPIssuer)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, 465, cfg.SMTPPort)
		assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)

		// keys missing from the file keep their defaults
		assert.Equal(t, "http://localhost:8080", cfg.AppURL)
		assert.Equal(t, "noreply@elrond.com", cfg.MailFrom)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234"}
		require.NoError(t, parseJson(cfg, nil))
		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-c", bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode config file")
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})
}
