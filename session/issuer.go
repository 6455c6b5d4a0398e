package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/giftauth/internal"
	"github.com/MrEthical07/giftauth/ttlstore"
)

const (
	defaultTTL           = time.Hour
	defaultRefreshMargin = time.Minute
	defaultTokenBytes    = 24
	defaultPrefix        = "ga"

	maxTokenLength = 256
)

var (
	// ErrUnauthenticated is returned by Resolve for absent, expired, revoked, or malformed tokens.
	ErrUnauthenticated = errors.New("session: unauthenticated")
	// ErrEmptyPrincipal is returned when principalID is empty.
	ErrEmptyPrincipal = errors.New("session: empty principal id")
	// ErrGenerate is returned when a token cannot be generated.
	ErrGenerate = errors.New("session: token generation failed")
)

// Config controls token lifetime, refresh margin, entropy, and key namespace.
// Zero-value fields fall back to defaults (1h, 60s, 24 bytes, "ga"). A
// defaulted margin is capped at a quarter of TTL when TTL is 60s or less.
type Config struct {
	TTL           time.Duration
	RefreshMargin time.Duration
	TokenBytes    int
	Prefix        string
}

// Issuer manages one live bearer token per principal.
type Issuer struct {
	store         ttlstore.Store
	ttl           time.Duration
	refreshMargin time.Duration
	tokenBytes    int
	prefix        string
}

// NewIssuer creates an [Issuer] on the given store.
func NewIssuer(store ttlstore.Store, cfg Config) *Issuer {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = defaultRefreshMargin
		// a defaulted margin must still leave a reuse window on short TTLs
		if cfg.RefreshMargin >= cfg.TTL {
			cfg.RefreshMargin = cfg.TTL / 4
		}
	}
	if cfg.TokenBytes <= 0 {
		cfg.TokenBytes = defaultTokenBytes
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	return &Issuer{
		store:         store,
		ttl:           cfg.TTL,
		refreshMargin: cfg.RefreshMargin,
		tokenBytes:    cfg.TokenBytes,
		prefix:        cfg.Prefix,
	}
}

func (i *Issuer) tokenKey(token string) string {
	return i.prefix + ":token:" + token
}

func (i *Issuer) indexKey(principalID string) string {
	return i.prefix + ":principal:" + principalID + ":token"
}

// TTL returns the lifetime applied to newly minted tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Current returns the live token for principalID, if any.
func (i *Issuer) Current(ctx context.Context, principalID string) (Token, bool, error) {
	if principalID == "" {
		return Token{}, false, ErrEmptyPrincipal
	}

	value, err := i.store.Get(ctx, i.indexKey(principalID))
	if err != nil {
		if errors.Is(err, ttlstore.ErrNotFound) {
			return Token{}, false, nil
		}
		return Token{}, false, err
	}

	remaining, err := i.store.TTL(ctx, i.tokenKey(value))
	if err != nil {
		return Token{}, false, err
	}
	if remaining <= 0 {
		return Token{}, false, nil
	}

	return Token{Value: value, PrincipalID: principalID, ExpiresIn: remaining}, true, nil
}

// Issue returns the live token for principalID while its remaining validity is
// above the refresh margin. Otherwise it mints and stores a new token and
// force-expires the one it supersedes.
func (i *Issuer) Issue(ctx context.Context, principalID string) (Token, error) {
	current, live, err := i.Current(ctx, principalID)
	if err != nil {
		return Token{}, err
	}
	if live && current.ExpiresIn > i.refreshMargin {
		current.Reused = true
		return current, nil
	}

	value, err := internal.NewToken(i.tokenBytes)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	if err := i.store.Set(ctx, i.tokenKey(value), principalID, i.ttl); err != nil {
		return Token{}, err
	}
	if err := i.store.Set(ctx, i.indexKey(principalID), value, i.ttl); err != nil {
		return Token{}, err
	}

	if live {
		if err := i.store.ExpireNow(ctx, i.tokenKey(current.Value)); err != nil {
			return Token{}, err
		}
	}

	return Token{Value: value, PrincipalID: principalID, ExpiresIn: i.ttl}, nil
}

// Resolve maps a bearer token to its principal ID. Absent tokens and tokens with
// no remaining validity yield [ErrUnauthenticated].
func (i *Issuer) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" || len(token) > maxTokenLength {
		return "", ErrUnauthenticated
	}
	key := i.tokenKey(token)

	principalID, err := i.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ttlstore.ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}

	remaining, err := i.store.TTL(ctx, key)
	if err != nil {
		return "", err
	}
	if remaining <= 0 || principalID == "" {
		return "", ErrUnauthenticated
	}

	return principalID, nil
}

// Revoke expires the live token of principalID immediately, together with any
// presented tokens that still resolve to principalID. Tokens owned by another
// principal are left alone. It is a no-op when nothing is live.
func (i *Issuer) Revoke(ctx context.Context, principalID string, presented ...string) error {
	if principalID == "" {
		return ErrEmptyPrincipal
	}
	indexKey := i.indexKey(principalID)

	current, err := i.store.Get(ctx, indexKey)
	if err != nil {
		if !errors.Is(err, ttlstore.ErrNotFound) {
			return err
		}
		current = ""
	}

	for _, token := range presented {
		if token == "" || token == current || len(token) > maxTokenLength {
			continue
		}
		if err := i.revokeOwned(ctx, principalID, token); err != nil {
			return err
		}
	}

	if current == "" {
		return nil
	}
	if err := i.store.ExpireNow(ctx, i.tokenKey(current)); err != nil {
		return err
	}
	return i.store.ExpireNow(ctx, indexKey)
}

// revokeOwned expires token only when it is still bound to principalID. A
// token superseded by a concurrent login is no longer in the index.
func (i *Issuer) revokeOwned(ctx context.Context, principalID, token string) error {
	key := i.tokenKey(token)
	owner, err := i.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ttlstore.ErrNotFound) {
			return nil
		}
		return err
	}
	if owner != principalID {
		return nil
	}
	return i.store.ExpireNow(ctx, key)
}
