package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Empty(t, c.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "https", mutate: func(c *Config) { c.ServerURL = "https://auth.example.com" }},
		{name: "no scheme", mutate: func(c *Config) { c.ServerURL = "127.0.0.1:8080" }, wantErr: "server url"},
		{name: "ftp", mutate: func(c *Config) { c.ServerURL = "ftp://host" }, wantErr: "server url"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "request timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("ELROND_CONFIG", "")
	t.Setenv("ELROND_TOKEN", "session-token")
	t.Setenv("ELROND_SERVER_URL", "http://env:8080")
	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":      "http://json:8080",
		"request_timeout": "5s",
	})

	cfg, err := load([]string{"-c", path, "-a", "http://flag:8080", "login"})
	require.NoError(t, err)

	want := &Config{ServerURL: "http://flag:8080", RequestTimeout: 5 * time.Second, Token: "session-token"}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_TimeoutFlag(t *testing.T) {
	t.Setenv("ELROND_CONFIG", "")

	cfg, err := load([]string{"-t", "30", "me"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ELROND_CONFIG", "")

	_, err := load([]string{"-a", "not a url"})
	assert.ErrorContains(t, err, "invalid config")

	_, err = load([]string{"-t", "abc"})
	assert.ErrorContains(t, err, "parse flags")
}
