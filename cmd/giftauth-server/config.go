package main

import (
	"fmt"
	"time"

	"github.com/MrEthical07/giftauth"
	"github.com/caarlos0/env/v11"
)

// serverConfig is read from GIFTAUTH_* environment variables.
type serverConfig struct {
	HTTPAddr        string        `env:"GIFTAUTH_HTTP_ADDR"        envDefault:":8080"`
	MetricsPath     string        `env:"GIFTAUTH_METRICS_PATH"     envDefault:"/metrics"`
	ShutdownTimeout time.Duration `env:"GIFTAUTH_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Development     bool          `env:"GIFTAUTH_DEV"`

	RedisAddr     string `env:"GIFTAUTH_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"GIFTAUTH_REDIS_PASSWORD"`
	RedisDB       int    `env:"GIFTAUTH_REDIS_DB"`
	RedisEmbedded bool   `env:"GIFTAUTH_REDIS_EMBEDDED"`

	DBDriver string `env:"GIFTAUTH_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"GIFTAUTH_DB_DSN"    envDefault:"file:giftauth.db?_pragma=busy_timeout(5000)"`

	CodeDigits      int           `env:"GIFTAUTH_CODE_DIGITS"       envDefault:"5"`
	CodeTTL         time.Duration `env:"GIFTAUTH_CODE_TTL"          envDefault:"2m"`
	TokenTTL        time.Duration `env:"GIFTAUTH_TOKEN_TTL"         envDefault:"1h"`
	RefreshMargin   time.Duration `env:"GIFTAUTH_REFRESH_MARGIN"    envDefault:"1m"`
	KeyPrefix       string        `env:"GIFTAUTH_KEY_PREFIX"        envDefault:"ga"`
	SearchPerMinute int           `env:"GIFTAUTH_SEARCH_PER_MINUTE" envDefault:"100"`
	AutoRegister    bool          `env:"GIFTAUTH_AUTO_REGISTER"     envDefault:"true"`
	Audit           bool          `env:"GIFTAUTH_AUDIT"             envDefault:"true"`
}

func loadServerConfig() (serverConfig, error) {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return serverConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// engineConfig maps the env settings onto the library defaults and validates
// the result.
func (c serverConfig) engineConfig() (giftauth.Config, error) {
	cfg := giftauth.DefaultConfig()
	cfg.OTP.Digits = c.CodeDigits
	cfg.OTP.TTL = c.CodeTTL
	cfg.Session.TTL = c.TokenTTL
	cfg.Session.RefreshMargin = c.RefreshMargin
	cfg.Session.RedisPrefix = c.KeyPrefix
	cfg.RateLimit.MaxSearchRequests = c.SearchPerMinute
	cfg.RateLimit.SearchWindow = time.Minute
	cfg.Principal.AutoRegister = c.AutoRegister
	cfg.Audit.Enabled = c.Audit

	if err := cfg.Validate(); err != nil {
		return giftauth.Config{}, err
	}
	return cfg, nil
}
