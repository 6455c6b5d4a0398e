package giftauth

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	for name, cfg := range map[string]Config{
		"default":    DefaultConfig(),
		"long lived": LongLivedSessionConfig(),
	} {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("%s: expected valid config, got %v", name, err)
		}
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OTP.Digits != 5 || cfg.OTP.TTL != 2*time.Minute {
		t.Fatalf("unexpected OTP defaults %+v", cfg.OTP)
	}
	if cfg.Session.TTL != time.Hour || cfg.Session.RefreshMargin != time.Minute {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if cfg.RateLimit.MaxSearchRequests != 100 || cfg.RateLimit.SearchWindow != time.Minute {
		t.Fatalf("unexpected search budget %+v", cfg.RateLimit)
	}
	if LongLivedSessionConfig().Session.TTL != 5*time.Hour {
		t.Fatal("expected 5h long-lived sessions")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "four digit codes",
			mutate:    func(c *Config) { c.OTP.Digits = 4 },
			wantValid: true,
		},
		{
			name:      "three digit codes",
			mutate:    func(c *Config) { c.OTP.Digits = 3 },
			wantValid: false,
		},
		{
			name:      "ten digit codes",
			mutate:    func(c *Config) { c.OTP.Digits = 10 },
			wantValid: false,
		},
		{
			name:      "zero code ttl",
			mutate:    func(c *Config) { c.OTP.TTL = 0 },
			wantValid: false,
		},
		{
			name:      "empty prefix",
			mutate:    func(c *Config) { c.Session.RedisPrefix = "" },
			wantValid: false,
		},
		{
			name:      "prefix with whitespace",
			mutate:    func(c *Config) { c.Session.RedisPrefix = "g a" },
			wantValid: false,
		},
		{
			name:      "zero session ttl",
			mutate:    func(c *Config) { c.Session.TTL = 0 },
			wantValid: false,
		},
		{
			name:      "margin equals ttl",
			mutate:    func(c *Config) { c.Session.RefreshMargin = c.Session.TTL },
			wantValid: false,
		},
		{
			name:      "zero margin",
			mutate:    func(c *Config) { c.Session.RefreshMargin = 0 },
			wantValid: false,
		},
		{
			name:      "negative margin",
			mutate:    func(c *Config) { c.Session.RefreshMargin = -time.Second },
			wantValid: false,
		},
		{
			name:      "short tokens",
			mutate:    func(c *Config) { c.Session.TokenBytes = 8 },
			wantValid: false,
		},
		{
			name:      "huge tokens",
			mutate:    func(c *Config) { c.Session.TokenBytes = 512 },
			wantValid: false,
		},
		{
			name:      "disabled limiter without window",
			mutate:    func(c *Config) { c.RateLimit.MaxSearchRequests = 0; c.RateLimit.SearchWindow = 0 },
			wantValid: true,
		},
		{
			name:      "limiter without window",
			mutate:    func(c *Config) { c.RateLimit.LoginCodeWindow = 0 },
			wantValid: false,
		},
		{
			name:      "negative budget",
			mutate:    func(c *Config) { c.RateLimit.MaxLoginFailures = -1 },
			wantValid: false,
		},
		{
			name:      "audit without buffer",
			mutate:    func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 },
			wantValid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
