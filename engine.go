package giftauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/giftauth/internal/rate"
	"github.com/MrEthical07/giftauth/otp"
	"github.com/MrEthical07/giftauth/principal"
	"github.com/MrEthical07/giftauth/session"
	"go.uber.org/zap"
)

// Engine issues login codes and bearer tokens and resolves bearer headers to
// principals.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config      Config
	codes       *otp.Issuer
	sessions    *session.Issuer
	principals  principal.Store
	rateLimiter *rate.Limiter
	audit       *auditDispatcher
	metrics     *Metrics
	logger      *zap.Logger
}

// Close flushes pending audit events. Safe to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events lost to a full queue.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Principals returns the principal directory the engine authenticates against.
func (e *Engine) Principals() principal.Store {
	if e == nil {
		return nil
	}
	return e.principals
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.codes != nil && e.sessions != nil && e.principals != nil
}

// RequestLoginCode returns the live login code for the principal owning phone,
// minting one when none is live. Unknown phone numbers are registered when
// Config.Principal.AutoRegister is set and rejected with [ErrPrincipalNotFound]
// otherwise.
func (e *Engine) RequestLoginCode(ctx context.Context, phone string) (LoginCode, error) {
	if !e.ready() {
		return LoginCode{}, ErrEngineNotReady
	}
	if phone == "" {
		return LoginCode{}, ErrInvalidPhoneNumber
	}

	if e.rateLimiter != nil {
		if err := e.rateLimiter.AllowLoginCode(ctx, phone); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.emitAudit(ctx, auditEventLoginCodeRateLimited, false, "", ErrLoginCodeRateLimited, nil)
				e.emitRateLimit(ctx, "login_code", nil)
				return LoginCode{}, ErrLoginCodeRateLimited
			}
			return LoginCode{}, e.credentialStoreError("request login code", err)
		}
	}

	p, registered, err := e.principalForCode(ctx, phone)
	if err != nil {
		return LoginCode{}, err
	}

	code, err := e.codes.RequestCode(ctx, p.ID)
	if err != nil {
		return LoginCode{}, e.credentialStoreError("request login code", err)
	}

	if code.Reused {
		e.metricInc(MetricLoginCodeReused)
	} else {
		e.metricInc(MetricLoginCodeIssued)
	}
	e.emitAudit(ctx, auditEventLoginCodeIssued, true, p.ID, nil, func() map[string]string {
		return map[string]string{
			"reused": fmt.Sprintf("%t", code.Reused),
		}
	})

	return LoginCode{
		PrincipalID: p.ID,
		Code:        code.Value,
		ExpiresIn:   code.ExpiresIn,
		Reused:      code.Reused,
		Registered:  registered,
	}, nil
}

func (e *Engine) principalForCode(ctx context.Context, phone string) (principal.Principal, bool, error) {
	p, err := e.principals.FindByPhone(ctx, phone)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, principal.ErrNotFound) {
		return principal.Principal{}, false, e.principalStoreError("find principal", err)
	}
	if !e.config.Principal.AutoRegister {
		return principal.Principal{}, false, ErrPrincipalNotFound
	}

	p, err = e.principals.Save(ctx, principal.New(phone))
	switch {
	case err == nil:
		e.metricInc(MetricPrincipalRegistered)
		e.emitAudit(ctx, auditEventPrincipalRegistered, true, p.ID, nil, nil)
		return p, true, nil
	case errors.Is(err, principal.ErrDuplicatePhone):
		// registered concurrently; use the winner
		p, err = e.principals.FindByPhone(ctx, phone)
		if err != nil {
			return principal.Principal{}, false, e.principalStoreError("find principal", err)
		}
		return p, false, nil
	default:
		return principal.Principal{}, false, e.principalStoreError("register principal", err)
	}
}

// Login exchanges a live login code for a bearer token. Wrong or expired codes
// count against the phone number's failure budget; a successful login resets it.
func (e *Engine) Login(ctx context.Context, phone, code string) (LoginResult, error) {
	if !e.ready() {
		return LoginResult{}, ErrEngineNotReady
	}
	if phone == "" {
		return LoginResult{}, ErrInvalidPhoneNumber
	}

	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, phone); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				return LoginResult{}, e.loginRateLimited(ctx, "")
			}
			return LoginResult{}, e.credentialStoreError("login", err)
		}
	}

	p, err := e.principals.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrPrincipalNotFound, nil)
			// unknown phones spend the failure budget too
			if e.rateLimiter != nil {
				if err := e.rateLimiter.IncrementLogin(ctx, phone); err != nil {
					if errors.Is(err, rate.ErrRateLimited) {
						return LoginResult{}, e.loginRateLimited(ctx, "")
					}
					return LoginResult{}, e.credentialStoreError("login", err)
				}
			}
			return LoginResult{}, ErrPrincipalNotFound
		}
		return LoginResult{}, e.principalStoreError("find principal", err)
	}

	ok, err := e.codes.VerifyCode(ctx, p.ID, code)
	if err != nil {
		return LoginResult{}, e.credentialStoreError("verify login code", err)
	}
	if !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, p.ID, ErrInvalidLoginCode, nil)
		if e.rateLimiter != nil {
			if err := e.rateLimiter.IncrementLogin(ctx, phone); err != nil {
				if errors.Is(err, rate.ErrRateLimited) {
					return LoginResult{}, e.loginRateLimited(ctx, p.ID)
				}
				return LoginResult{}, e.credentialStoreError("login", err)
			}
		}
		return LoginResult{}, ErrInvalidLoginCode
	}

	if e.rateLimiter != nil {
		if err := e.rateLimiter.ResetLogin(ctx, phone); err != nil {
			e.logger.Warn("reset login failures",
				zap.String("principal_id", p.ID),
				zap.Error(err),
			)
		}
	}

	token, err := e.sessions.Issue(ctx, p.ID)
	if err != nil {
		return LoginResult{}, e.credentialStoreError("issue token", err)
	}

	if token.Reused {
		e.metricInc(MetricTokenReused)
	} else {
		e.metricInc(MetricTokenIssued)
	}
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, p.ID, nil, func() map[string]string {
		return map[string]string{
			"token_reused": fmt.Sprintf("%t", token.Reused),
		}
	})

	return LoginResult{
		Principal: p,
		Token:     token.Value,
		ExpiresIn: token.ExpiresIn,
		Reused:    token.Reused,
	}, nil
}

func (e *Engine) loginRateLimited(ctx context.Context, principalID string) error {
	e.metricInc(MetricLoginRateLimited)
	e.emitAudit(ctx, auditEventLoginRateLimited, false, principalID, ErrLoginRateLimited, nil)
	e.emitRateLimit(ctx, "login", nil)
	return ErrLoginRateLimited
}

// Logout revokes the live token of principalID and every presented token that
// still belongs to it, such as the bearer token of the current request. It is
// a no-op when none is live.
func (e *Engine) Logout(ctx context.Context, principalID string, tokens ...string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.sessions.Revoke(ctx, principalID, tokens...); err != nil {
		if errors.Is(err, session.ErrEmptyPrincipal) {
			return ErrUnauthorized
		}
		return e.credentialStoreError("revoke token", err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, principalID, nil, nil)
	return nil
}

// Authenticate resolves an Authorization header of the form "Bearer <token>"
// to the principal the token was issued to. Any other scheme, a missing token,
// a token that is expired or revoked, or a token whose principal no longer
// exists yields [ErrUnauthorized].
func (e *Engine) Authenticate(ctx context.Context, authorization string) (principal.Principal, error) {
	if !e.ready() {
		return principal.Principal{}, ErrEngineNotReady
	}

	start := time.Now()
	p, err := e.authenticate(ctx, authorization)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}

	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		if errors.Is(err, ErrUnauthorized) {
			e.emitAudit(ctx, auditEventAuthenticateFailure, false, "", err, nil)
		}
		return principal.Principal{}, err
	}

	e.metricInc(MetricAuthenticateSuccess)
	return p, nil
}

func (e *Engine) authenticate(ctx context.Context, authorization string) (principal.Principal, error) {
	token, ok := ParseBearer(authorization)
	if !ok {
		return principal.Principal{}, ErrUnauthorized
	}

	principalID, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			return principal.Principal{}, ErrUnauthorized
		}
		return principal.Principal{}, e.credentialStoreError("resolve token", err)
	}

	p, err := e.principals.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return principal.Principal{}, ErrUnauthorized
		}
		return principal.Principal{}, e.principalStoreError("find principal", err)
	}
	return p, nil
}

// ParseBearer extracts the token from an Authorization header value. The
// header must hold exactly two whitespace-separated fields, the first being
// "Bearer".
func ParseBearer(authorization string) (string, bool) {
	fields := strings.Fields(authorization)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return "", false
	}
	return fields[1], true
}

// AllowSearch counts a directory search by callerID against its budget.
func (e *Engine) AllowSearch(ctx context.Context, callerID string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if e.rateLimiter == nil {
		return nil
	}

	if err := e.rateLimiter.AllowSearch(ctx, callerID); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			e.emitAudit(ctx, auditEventSearchRateLimited, false, callerID, ErrSearchRateLimited, nil)
			e.emitRateLimit(ctx, "search", nil)
			return ErrSearchRateLimited
		}
		return e.credentialStoreError("search rate limit", err)
	}
	return nil
}

func (e *Engine) credentialStoreError(op string, err error) error {
	e.logger.Error("credential store failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrCredentialStoreUnavailable, err)
}

func (e *Engine) principalStoreError(op string, err error) error {
	e.logger.Error("principal store failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrPrincipalStoreUnavailable, err)
}
