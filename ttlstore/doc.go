// Package ttlstore defines the time-to-live key/value protocol that credential
// issuers are built on, together with its Redis implementation.
//
// # Protocol
//
// Every key carries an expiry. The protocol has exactly four operations:
//
//   - [Store.Set] writes a value with a TTL.
//   - [Store.Get] reads a value; absent and expired keys both yield [ErrNotFound].
//   - [Store.TTL] reports remaining validity; zero or negative means the key is
//     absent, expired, or carries no expiry.
//   - [Store.ExpireNow] forces immediate expiry and is a no-op on absent keys.
//
// Each operation is atomic at single-key granularity. Callers that need two keys
// to change together must tolerate observing one write before the other.
//
// # What this package must NOT do
//
//   - Interpret values (principal IDs, codes, and tokens are opaque strings).
//   - Retry failed backend calls; failures are wrapped in [ErrUnavailable] and
//     surfaced to the caller.
package ttlstore
