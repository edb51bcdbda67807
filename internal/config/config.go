// Package config содержит логику чтения конфигурации сервиса GOODFOOD.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultSessionTTL = 24 * time.Hour
)

// Config содержит параметры конфигурации сервиса GOODFOOD.
type Config struct {
	RunAddress      string
	SessionSecret   string
	SessionTTL      time.Duration
	FullLogoutReset bool
	AllowedOrigins  []string
}

// envConfig хранит значения из окружения. Указатель остаётся nil, если
// переменная не задана, и тогда используется значение флага.
type envConfig struct {
	RunAddress      string         `env:"RUN_ADDRESS"`
	SessionSecret   string         `env:"SESSION_SECRET"`
	SessionTTL      *time.Duration `env:"SESSION_TTL"`
	FullLogoutReset *bool          `env:"LOGOUT_FULL_RESET"`
	AllowedOrigins  []string       `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}
	var origins string

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.SessionSecret, "s", "", "secret for signing session cookies")
	flag.DurationVar(&cfg.SessionTTL, "t", defaultSessionTTL, "idle session lifetime, 0 disables eviction")
	flag.BoolVar(&cfg.FullLogoutReset, "full-logout-reset", false, "reset the whole session on logout")
	flag.StringVar(&origins, "o", "", "comma separated list of CORS origins")

	flag.Parse()

	cfg.AllowedOrigins = splitOrigins(origins)

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.SessionSecret != "" {
		cfg.SessionSecret = envCfg.SessionSecret
	}
	if envCfg.SessionTTL != nil {
		cfg.SessionTTL = *envCfg.SessionTTL
	}
	if envCfg.FullLogoutReset != nil {
		cfg.FullLogoutReset = *envCfg.FullLogoutReset
	}
	if len(envCfg.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = splitOrigins(strings.Join(envCfg.AllowedOrigins, ","))
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.SessionTTL < 0 {
		return nil, fmt.Errorf("session ttl must not be negative: %s", cfg.SessionTTL)
	}

	return cfg, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
