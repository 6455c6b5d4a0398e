package ttlstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key is absent or already expired.
	ErrNotFound = errors.New("ttl key not found")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("ttl store unavailable")
	// ErrInvalidTTL is returned by Set when ttl is not positive.
	ErrInvalidTTL = errors.New("ttl must be > 0")
)

// Store is the TTL key/value protocol consumed by the OTP and session issuers.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	ExpireNow(ctx context.Context, key string) error
}
