//go:build integration
// +build integration

package test

import (
	"context"
	"testing"
)

const budgetPhone = "09121234567"

// Round-trip budgets per engine operation. A change here means a hot path
// gained or lost a Redis call.
func TestRedisCommandBudgets(t *testing.T) {
	ctx := context.Background()
	engine, _, counter := newCountedEngine(t)

	code, err := engine.RequestLoginCode(ctx, budgetPhone)
	if err != nil {
		t.Fatalf("RequestLoginCode failed: %v", err)
	}

	counter.Reset()
	again, err := engine.RequestLoginCode(ctx, budgetPhone)
	if err != nil {
		t.Fatalf("RequestLoginCode (reuse) failed: %v", err)
	}
	if !again.Reused {
		t.Fatal("expected the live code to be reused")
	}
	// INCR + TTL + GET
	if got := counter.Commands(); got != 3 {
		t.Fatalf("reused code request: expected 3 commands, got %d", got)
	}

	first, err := engine.Login(ctx, budgetPhone, code.Code)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	counter.Reset()
	second, err := engine.Login(ctx, budgetPhone, code.Code)
	if err != nil {
		t.Fatalf("Login (reuse) failed: %v", err)
	}
	if !second.Reused || second.Token != first.Token {
		t.Fatal("expected the live token to be reused")
	}
	// failure counter GET + code GET + counter DEL + index GET + token TTL
	if got := counter.Commands(); got != 5 {
		t.Fatalf("reused login: expected 5 commands, got %d", got)
	}

	counter.Reset()
	if _, err := engine.Authenticate(ctx, "Bearer "+first.Token); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	// token GET + token TTL
	if got := counter.Commands(); got != 2 {
		t.Fatalf("authenticate: expected 2 commands, got %d", got)
	}

	counter.Reset()
	if err := engine.Logout(ctx, first.Principal.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	// index GET + token EXPIRE + index EXPIRE
	if got := counter.Commands(); got != 3 {
		t.Fatalf("logout: expected 3 commands, got %d", got)
	}
}

func TestAuthenticateRejectsMalformedHeaderWithoutRedis(t *testing.T) {
	engine, _, counter := newCountedEngine(t)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		if _, err := engine.Authenticate(context.Background(), header); err == nil {
			t.Fatalf("expected %q to be rejected", header)
		}
	}
	if got := counter.Commands(); got != 0 {
		t.Fatalf("expected no redis commands for malformed headers, got %d", got)
	}
}
