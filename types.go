package giftauth

import (
	"time"

	"github.com/MrEthical07/giftauth/principal"
)

// LoginCode is returned by [Engine.RequestLoginCode]. Delivering Code to the
// phone number is the caller's job.
type LoginCode struct {
	PrincipalID string
	Code        string
	ExpiresIn   time.Duration
	// Reused is true when the live code was returned instead of a new one.
	Reused bool
	// Registered is true when the request created the principal.
	Registered bool
}

// LoginResult is returned by a successful [Engine.Login].
type LoginResult struct {
	Principal principal.Principal
	Token     string
	ExpiresIn time.Duration
	// Reused is true when the principal's live token was returned.
	Reused bool
}
