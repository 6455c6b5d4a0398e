package giftauth

import (
	"context"
	"testing"

	"github.com/MrEthical07/giftauth/principal"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type testEnv struct {
	engine     *Engine
	mr         *miniredis.Miniredis
	principals *principal.MemoryStore
}

func newTestEngine(t testing.TB, mutate func(*Config), opts ...func(*Builder)) testEnv {
	t.Helper()

	mr, rdb := newTestRedis(t)
	principals := principal.NewMemoryStore()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	b := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithPrincipalStore(principals)
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return testEnv{engine: engine, mr: mr, principals: principals}
}

// login runs the full code-then-token flow for phone.
func (env testEnv) login(t testing.TB, phone string) LoginResult {
	t.Helper()

	code, err := env.engine.RequestLoginCode(context.Background(), phone)
	if err != nil {
		t.Fatalf("RequestLoginCode failed: %v", err)
	}
	result, err := env.engine.Login(context.Background(), phone, code.Code)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return result
}
