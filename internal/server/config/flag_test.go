package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-t", "60", "-m", "2", "-v", "30", "-u", "https://auth.example", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:                  "127.0.0.1:9090",
				DatabaseDSN:                       "db",
				SecretKey:                         "secret",
				TokenValidityDuration:             time.Hour,
				MfaTokenValidityDuration:          2 * time.Minute,
				VerificationTokenValidityDuration: 30 * time.Minute,
				AppURL:                            "https://auth.example",
				LogLevel:                          "debug",
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "conf.json", "-a", ":1"},
			expected: &Config{
				EndpointAddrHTTP: ":1",
			},
		},
		{
			name:    "non numeric duration",
			args:    []string{"-t", "forever"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsDurationsWhenAbsent(t *testing.T) {
	config := &Config{MfaTokenValidityDuration: 90 * time.Second}
	require.NoError(t, parseFlags(config, []string{"-t", "5"}))

	assert.Equal(t, 5*time.Minute, config.TokenValidityDuration)
	assert.Equal(t, 90*time.Second, config.MfaTokenValidityDuration)
}
