package giftauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginCodeIssued      = "login_code_issued"
	auditEventLoginCodeRateLimited = "login_code_rate_limited"
	auditEventPrincipalRegistered  = "principal_registered"
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventLoginRateLimited     = "login_rate_limited"
	auditEventAuthenticateFailure  = "authenticate_failure"
	auditEventLogout               = "logout"
	auditEventSearchRateLimited    = "search_rate_limited"
	auditEventRateLimitTriggered   = "rate_limit_triggered"
)

// AuditErrorCode is the stable error vocabulary recorded on audit events.
type AuditErrorCode string

const (
	auditErrUnauthorized      AuditErrorCode = "unauthorized"
	auditErrInvalidLoginCode  AuditErrorCode = "invalid_login_code"
	auditErrInvalidPhone      AuditErrorCode = "invalid_phone_number"
	auditErrPrincipalNotFound AuditErrorCode = "principal_not_found"
	auditErrRateLimited       AuditErrorCode = "rate_limited"
	auditErrUnavailable       AuditErrorCode = "backend_unavailable"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	principalID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		PrincipalID: principalID,
		IP:          clientIPFromContext(ctx),
		Success:     success,
		Metadata:    metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope string, metadataBuilder func() map[string]string) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, "", nil, func() map[string]string {
		base := map[string]string{
			"scope": scope,
		}
		if metadataBuilder == nil {
			return base
		}
		for k, v := range metadataBuilder() {
			base[k] = v
		}
		return base
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrInvalidLoginCode):
		return auditErrInvalidLoginCode
	case errors.Is(err, ErrInvalidPhoneNumber):
		return auditErrInvalidPhone
	case errors.Is(err, ErrPrincipalNotFound):
		return auditErrPrincipalNotFound
	case errors.Is(err, ErrLoginCodeRateLimited),
		errors.Is(err, ErrLoginRateLimited),
		errors.Is(err, ErrSearchRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrCredentialStoreUnavailable),
		errors.Is(err, ErrPrincipalStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
