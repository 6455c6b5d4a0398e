package session

import "time"

// Token is a bearer token bound to a principal.
type Token struct {
	Value       string
	PrincipalID string
	ExpiresIn   time.Duration
	// Reused is true when Issue returned the already-live token.
	Reused bool
}
