// Package session issues, resolves, and revokes opaque bearer tokens kept in a
// [ttlstore.Store].
//
// # Storage layout
//
// Two keys per live session, both carrying the same TTL:
//
//   - <prefix>:token:<token>              -> principal ID (resolution)
//   - <prefix>:principal:<id>:token       -> token        (per-principal index)
//
// The token key is written before the index key, so an index entry never points
// at a token that cannot be resolved.
//
// # Lifecycle
//
// At most one token is live per principal. [Issuer.Issue] returns the live token
// unchanged while its remaining validity exceeds the refresh margin; otherwise it
// mints a new token and force-expires the superseded one. [Issuer.Revoke] expires
// both keys immediately. Expiry is otherwise left entirely to the store.
//
// # What this package must NOT do
//
//   - Verify that a principal still exists (the caller consults its principal store).
//   - Hold in-process state; every decision is made from the store.
package session
