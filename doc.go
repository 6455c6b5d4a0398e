// Package giftauth provides the credential core of the gift registry: one-time
// login codes bound to phone numbers, opaque bearer tokens with forced
// revocation, and an auth gate that resolves a bearer header to a principal.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// giftauth is the public surface. It exposes [Engine], [Builder], [Config], and value types
// ([LoginCode], [LoginResult], [MetricsSnapshot]). Credential state lives only in the TTL
// store; validity is enforced by key expiry, never by in-process timers or locks.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key layouts in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Stash the authenticated principal in request context. Callers receive it as a value.
package giftauth
