package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress      string
		sessionSecret   string
		sessionTTL      time.Duration
		fullLogoutReset bool
		allowedOrigins  []string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress: "localhost:8080",
				sessionTTL: 24 * time.Hour,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":       "localhost:9999",
				"SESSION_SECRET":    "env-secret",
				"SESSION_TTL":       "30m",
				"LOGOUT_FULL_RESET": "true",
				"ALLOWED_ORIGINS":   "http://localhost:5173, https://goodfood.example",
			},
			flags: []string{},
			want: want{
				runAddress:      "localhost:9999",
				sessionSecret:   "env-secret",
				sessionTTL:      30 * time.Minute,
				fullLogoutReset: true,
				allowedOrigins:  []string{"http://localhost:5173", "https://goodfood.example"},
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-s", "flag-secret",
				"-t", "2h",
				"-full-logout-reset",
				"-o", "http://localhost:3000",
			},
			want: want{
				runAddress:      "localhost:7777",
				sessionSecret:   "flag-secret",
				sessionTTL:      2 * time.Hour,
				fullLogoutReset: true,
				allowedOrigins:  []string{"http://localhost:3000"},
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":       "env:9000",
				"SESSION_TTL":       "0s",
				"LOGOUT_FULL_RESET": "false",
			},
			flags: []string{
				"-a", "flag:8000",
				"-t", "1h",
				"-full-logout-reset",
			},
			want: want{
				runAddress:      "env:9000",
				sessionTTL:      0,
				fullLogoutReset: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.sessionSecret, cfg.SessionSecret)
			assert.Equal(t, tt.want.sessionTTL, cfg.SessionTTL)
			assert.Equal(t, tt.want.fullLogoutReset, cfg.FullLogoutReset)
			assert.Equal(t, tt.want.allowedOrigins, cfg.AllowedOrigins)
		})
	}
}

func TestParseConfig_InvalidTTL(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	t.Setenv("SESSION_TTL", "soon")
	os.Args = []string{"test"}

	_, err := Parse()
	assert.Error(t, err)
}
