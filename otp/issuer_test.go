package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/giftauth/ttlstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newIssuerTest(t *testing.T, cfg Config) (*Issuer, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewIssuer(ttlstore.NewRedisStore(rdb), cfg), mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestRequestCodeIdempotentWithinWindow(t *testing.T) {
	issuer, mr, done := newIssuerTest(t, Config{})
	defer done()
	ctx := context.Background()

	first, err := issuer.RequestCode(ctx, "p-1")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if first.Reused {
		t.Fatalf("first request must mint a new code")
	}
	if len(first.Value) != defaultDigits {
		t.Fatalf("expected %d digit code, got %q", defaultDigits, first.Value)
	}

	mr.FastForward(90 * time.Second)

	second, err := issuer.RequestCode(ctx, "p-1")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if second.Value != first.Value {
		t.Fatalf("expected identical code %q, got %q", first.Value, second.Value)
	}
	if !second.Reused {
		t.Fatalf("second request must report reuse")
	}
	if second.ExpiresIn <= 0 || second.ExpiresIn > 30*time.Second {
		t.Fatalf("expected remaining validity <= 30s, got %s", second.ExpiresIn)
	}
}

func TestRequestCodeIsPerPrincipal(t *testing.T) {
	issuer, mr, done := newIssuerTest(t, Config{})
	defer done()
	ctx := context.Background()

	a, err := issuer.RequestCode(ctx, "p-a")
	if err != nil {
		t.Fatalf("request a: %v", err)
	}
	if _, err := issuer.RequestCode(ctx, "p-b"); err != nil {
		t.Fatalf("request b: %v", err)
	}

	stored, err := mr.Get("ga:principal:p-a:login_code")
	if err != nil {
		t.Fatalf("read key: %v", err)
	}
	if stored != a.Value {
		t.Fatalf("expected stored code %q, got %q", a.Value, stored)
	}
	if !mr.Exists("ga:principal:p-b:login_code") {
		t.Fatalf("expected separate key for p-b")
	}
}

func TestVerifyCodeAcceptedOnlyWithinWindow(t *testing.T) {
	issuer, mr, done := newIssuerTest(t, Config{})
	defer done()
	ctx := context.Background()

	code, err := issuer.RequestCode(ctx, "p-1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	ok, err := issuer.VerifyCode(ctx, "p-1", code.Value)
	if err != nil || !ok {
		t.Fatalf("expected valid code, ok=%v err=%v", ok, err)
	}

	mr.FastForward(defaultTTL + time.Second)

	ok, err = issuer.VerifyCode(ctx, "p-1", code.Value)
	if err != nil {
		t.Fatalf("verify after expiry: %v", err)
	}
	if ok {
		t.Fatalf("expired code must be rejected")
	}

	fresh, err := issuer.RequestCode(ctx, "p-1")
	if err != nil {
		t.Fatalf("request after expiry: %v", err)
	}
	if fresh.Reused {
		t.Fatalf("request after expiry must mint a new code")
	}
}

func TestVerifyCodeWrongGuessDoesNotConsume(t *testing.T) {
	issuer, _, done := newIssuerTest(t, Config{})
	defer done()
	ctx := context.Background()

	code, err := issuer.RequestCode(ctx, "p-1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	wrong := "00000"
	if code.Value == wrong {
		wrong = "00001"
	}
	for i := 0; i < 3; i++ {
		ok, err := issuer.VerifyCode(ctx, "p-1", wrong)
		if err != nil || ok {
			t.Fatalf("wrong guess accepted, ok=%v err=%v", ok, err)
		}
	}

	ok, err := issuer.VerifyCode(ctx, "p-1", code.Value)
	if err != nil || !ok {
		t.Fatalf("legitimate retry rejected, ok=%v err=%v", ok, err)
	}

	ok, err = issuer.VerifyCode(ctx, "p-1", code.Value)
	if err != nil || !ok {
		t.Fatalf("verification must not consume the code, ok=%v err=%v", ok, err)
	}
}

func TestVerifyCodeNeverRequested(t *testing.T) {
	issuer, _, done := newIssuerTest(t, Config{})
	defer done()

	ok, err := issuer.VerifyCode(context.Background(), "nobody", "12345")
	if err != nil || ok {
		t.Fatalf("expected false,nil for never-requested code, ok=%v err=%v", ok, err)
	}
}

func TestIssuerConfigOverrides(t *testing.T) {
	issuer, mr, done := newIssuerTest(t, Config{Digits: 6, TTL: 10 * time.Second, Prefix: "x"})
	defer done()

	code, err := issuer.RequestCode(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(code.Value) != 6 {
		t.Fatalf("expected 6 digit code, got %q", code.Value)
	}
	if ttl := mr.TTL("x:principal:p-1:login_code"); ttl != 10*time.Second {
		t.Fatalf("expected 10s ttl, got %s", ttl)
	}
	if issuer.TTL() != 10*time.Second {
		t.Fatalf("expected TTL accessor to report 10s, got %s", issuer.TTL())
	}
}

func TestRequestCodeRejectsEmptyPrincipal(t *testing.T) {
	issuer, _, done := newIssuerTest(t, Config{})
	defer done()

	if _, err := issuer.RequestCode(context.Background(), ""); !errors.Is(err, ErrEmptyPrincipal) {
		t.Fatalf("expected ErrEmptyPrincipal, got %v", err)
	}
}

type failingStore struct{ err error }

func (f failingStore) Set(context.Context, string, string, time.Duration) error { return f.err }
func (f failingStore) Get(context.Context, string) (string, error)             { return "", f.err }
func (f failingStore) TTL(context.Context, string) (time.Duration, error)      { return 0, f.err }
func (f failingStore) ExpireNow(context.Context, string) error                 { return f.err }

func TestIssuerSurfacesStoreFailures(t *testing.T) {
	boom := errors.Join(ttlstore.ErrUnavailable, errors.New("connection refused"))
	issuer := NewIssuer(failingStore{err: boom}, Config{})
	ctx := context.Background()

	if _, err := issuer.RequestCode(ctx, "p-1"); !errors.Is(err, ttlstore.ErrUnavailable) {
		t.Fatalf("request: expected ErrUnavailable, got %v", err)
	}
	if _, err := issuer.VerifyCode(ctx, "p-1", "12345"); !errors.Is(err, ttlstore.ErrUnavailable) {
		t.Fatalf("verify: expected ErrUnavailable, got %v", err)
	}
}
