package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/giftauth/internal"
	"github.com/MrEthical07/giftauth/ttlstore"
)

const (
	defaultDigits = 5
	defaultTTL    = 2 * time.Minute
	defaultPrefix = "ga"
)

var (
	// ErrEmptyPrincipal is returned when principalID is empty.
	ErrEmptyPrincipal = errors.New("otp: empty principal id")
	// ErrGenerate is returned when a code cannot be generated.
	ErrGenerate = errors.New("otp: code generation failed")
)

// Config controls code width, validity window, and key namespace.
// Zero-value fields fall back to defaults (5 digits, 2 minutes, "ga").
type Config struct {
	Digits int
	TTL    time.Duration
	Prefix string
}

// Code is a login code together with its remaining validity.
type Code struct {
	Value     string
	ExpiresIn time.Duration
	// Reused is true when an already-live code was returned instead of a new one.
	Reused bool
}

// Issuer creates and validates one-time login codes.
type Issuer struct {
	store  ttlstore.Store
	digits int
	ttl    time.Duration
	prefix string
}

// NewIssuer creates an [Issuer] on the given store.
func NewIssuer(store ttlstore.Store, cfg Config) *Issuer {
	if cfg.Digits <= 0 {
		cfg.Digits = defaultDigits
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	return &Issuer{
		store:  store,
		digits: cfg.Digits,
		ttl:    cfg.TTL,
		prefix: cfg.Prefix,
	}
}

func (i *Issuer) key(principalID string) string {
	return i.prefix + ":principal:" + principalID + ":login_code"
}

// TTL returns the validity window applied to newly minted codes.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// RequestCode returns the live code for principalID, minting and storing a new
// one only when none is live.
func (i *Issuer) RequestCode(ctx context.Context, principalID string) (Code, error) {
	if principalID == "" {
		return Code{}, ErrEmptyPrincipal
	}
	key := i.key(principalID)

	remaining, err := i.store.TTL(ctx, key)
	if err != nil {
		return Code{}, err
	}
	if remaining > 0 {
		existing, err := i.store.Get(ctx, key)
		switch {
		case err == nil:
			return Code{Value: existing, ExpiresIn: remaining, Reused: true}, nil
		case errors.Is(err, ttlstore.ErrNotFound):
			// expired between TTL and GET
		default:
			return Code{}, err
		}
	}

	value, err := internal.NewLoginCode(i.digits)
	if err != nil {
		return Code{}, fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	if err := i.store.Set(ctx, key, value, i.ttl); err != nil {
		return Code{}, err
	}
	return Code{Value: value, ExpiresIn: i.ttl}, nil
}

// VerifyCode reports whether supplied matches the live code for principalID.
// It returns false, nil for absent, expired, or mismatching codes.
func (i *Issuer) VerifyCode(ctx context.Context, principalID, supplied string) (bool, error) {
	if principalID == "" || supplied == "" {
		return false, nil
	}

	stored, err := i.store.Get(ctx, i.key(principalID))
	if err != nil {
		if errors.Is(err, ttlstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1, nil
}
