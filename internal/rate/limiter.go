package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	Prefix string

	MaxLoginCodeRequests int
	LoginCodeWindow      time.Duration

	MaxLoginFailures   int
	LoginFailureWindow time.Duration

	MaxSearchRequests int
	SearchWindow      time.Duration
}

// Limiter enforces per-phone and per-caller budgets using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// AllowLoginCode counts a login-code request for phone and fails once the
// window budget is exceeded.
func (l *Limiter) AllowLoginCode(ctx context.Context, phone string) error {
	return l.consume(ctx, l.key("code", phone), l.config.MaxLoginCodeRequests, l.config.LoginCodeWindow)
}

// AllowSearch counts a directory search by caller.
func (l *Limiter) AllowSearch(ctx context.Context, caller string) error {
	return l.consume(ctx, l.key("search", caller), l.config.MaxSearchRequests, l.config.SearchWindow)
}

// CheckLogin reports whether phone may attempt another login without
// consuming budget. Only failures are counted.
func (l *Limiter) CheckLogin(ctx context.Context, phone string) error {
	if l.config.MaxLoginFailures <= 0 {
		return nil
	}

	count, err := l.counter(ctx, l.key("login", phone))
	if err != nil {
		return err
	}
	if count >= int64(l.config.MaxLoginFailures) {
		return ErrRateLimited
	}
	return nil
}

// IncrementLogin records a failed login for phone.
// Returns ErrRateLimited when this failure exhausts the budget.
func (l *Limiter) IncrementLogin(ctx context.Context, phone string) error {
	if l.config.MaxLoginFailures <= 0 {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, l.key("login", phone), l.config.LoginFailureWindow)
	if err != nil {
		return err
	}
	if count >= int64(l.config.MaxLoginFailures) {
		return ErrRateLimited
	}
	return nil
}

// ResetLogin clears the failed-login counter after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, phone string) error {
	if err := l.redis.Del(ctx, l.key("login", phone)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// LoginFailures returns the current failure counter for phone.
// Missing keys return zero.
func (l *Limiter) LoginFailures(ctx context.Context, phone string) (int, error) {
	count, err := l.counter(ctx, l.key("login", phone))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (l *Limiter) consume(ctx context.Context, key string, budget int, window time.Duration) error {
	if budget <= 0 {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, key, window)
	if err != nil {
		return err
	}
	if count > int64(budget) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) counter(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return count, nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func (l *Limiter) key(kind, subject string) string {
	return l.config.Prefix + ":rl:" + kind + ":" + subject
}
