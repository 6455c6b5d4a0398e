package giftauth

import (
	"errors"

	"github.com/MrEthical07/giftauth/pagination"
)

var (
	// ErrUnauthorized is returned by Authenticate for missing, malformed, expired, or revoked credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidLoginCode is returned by Login when the supplied code does not match a live code.
	ErrInvalidLoginCode = errors.New("invalid login code")
	// ErrInvalidPhoneNumber is returned for an empty phone number.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	// ErrPrincipalNotFound is returned when no principal owns the phone number.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrLoginCodeRateLimited is returned when a phone number exhausted its code-request budget.
	ErrLoginCodeRateLimited = errors.New("login code rate limited")
	// ErrLoginRateLimited is returned when a phone number exhausted its failed-login budget.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrSearchRateLimited is returned when a caller exhausted its directory search budget.
	ErrSearchRateLimited = errors.New("search rate limited")
	// ErrInvalidPagination is the umbrella for rejected page/per_page combinations.
	ErrInvalidPagination = pagination.ErrInvalidPagination
	// ErrCredentialStoreUnavailable wraps TTL store and counter failures.
	ErrCredentialStoreUnavailable = errors.New("credential store unavailable")
	// ErrPrincipalStoreUnavailable wraps principal store failures.
	ErrPrincipalStoreUnavailable = errors.New("principal store unavailable")
	// ErrEngineNotReady is returned by methods called on an engine that was not built.
	ErrEngineNotReady = errors.New("engine not ready")
)
