package giftauth

import (
	"errors"
	"strings"
	"time"
)

// Config holds every tunable of the [Engine].
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	OTP       OTPConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Principal PrincipalConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig controls login codes.
type OTPConfig struct {
	Digits int
	TTL    time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls bearer tokens. RedisPrefix namespaces every key the
// engine writes, codes and rate-limit counters included.
type SessionConfig struct {
	RedisPrefix   string
	TTL           time.Duration
	RefreshMargin time.Duration // a live token is reused only while it has more than this left
	TokenBytes    int
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig holds fixed-window budgets. A zero Max disables that limiter.
type RateLimitConfig struct {
	MaxLoginCodeRequests int
	LoginCodeWindow      time.Duration
	MaxLoginFailures     int
	LoginFailureWindow   time.Duration
	MaxSearchRequests    int
	SearchWindow         time.Duration
}

/*
====================================
PRINCIPAL CONFIG
====================================
*/

// PrincipalConfig controls principal lookup during login-code requests.
type PrincipalConfig struct {
	// AutoRegister creates a principal for an unknown phone number on code request.
	AutoRegister bool
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration: 5-digit codes valid for
// two minutes and one-hour tokens refreshed inside their last minute.
func DefaultConfig() Config {
	return defaultConfig()
}

// LongLivedSessionConfig returns [DefaultConfig] with five-hour tokens.
func LongLivedSessionConfig() Config {
	cfg := defaultConfig()
	cfg.Session.TTL = 5 * time.Hour
	return cfg
}

func defaultConfig() Config {
	return Config{
		OTP: OTPConfig{
			Digits: 5,
			TTL:    2 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix:   "ga",
			TTL:           time.Hour,
			RefreshMargin: time.Minute,
			TokenBytes:    24,
		},
		RateLimit: RateLimitConfig{
			MaxLoginCodeRequests: 5,
			LoginCodeWindow:      10 * time.Minute,
			MaxLoginFailures:     5,
			LoginFailureWindow:   15 * time.Minute,
			MaxSearchRequests:    100,
			SearchWindow:         time.Minute,
		},
		Principal: PrincipalConfig{
			AutoRegister: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// Config holds only value fields; the copy keeps Builder and Engine from
// sharing state with the caller.
func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field, if any.
func (c *Config) Validate() error {
	// OTP
	if c.OTP.Digits < 4 || c.OTP.Digits > 9 {
		return errors.New("OTP Digits must be between 4 and 9")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("OTP TTL must be > 0")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if strings.ContainsAny(c.Session.RedisPrefix, " \t\r\n") {
		return errors.New("Session RedisPrefix must not contain whitespace")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.Session.RefreshMargin <= 0 {
		return errors.New("Session RefreshMargin must be > 0")
	}
	if c.Session.RefreshMargin >= c.Session.TTL {
		return errors.New("Session RefreshMargin must be < Session TTL")
	}
	if c.Session.TokenBytes < 16 {
		return errors.New("Session TokenBytes must be >= 16")
	}
	if c.Session.TokenBytes > 128 {
		return errors.New("Session TokenBytes must be <= 128")
	}

	// Rate limits
	if err := validateBudget("RateLimit LoginCode", c.RateLimit.MaxLoginCodeRequests, c.RateLimit.LoginCodeWindow); err != nil {
		return err
	}
	if err := validateBudget("RateLimit LoginFailure", c.RateLimit.MaxLoginFailures, c.RateLimit.LoginFailureWindow); err != nil {
		return err
	}
	if err := validateBudget("RateLimit Search", c.RateLimit.MaxSearchRequests, c.RateLimit.SearchWindow); err != nil {
		return err
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}

func validateBudget(name string, budget int, window time.Duration) error {
	if budget < 0 {
		return errors.New(name + " budget must be >= 0")
	}
	if budget > 0 && window <= 0 {
		return errors.New(name + " window must be > 0 when the budget is set")
	}
	return nil
}
