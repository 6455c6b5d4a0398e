// Package otp issues and verifies one-time login codes kept in a [ttlstore.Store].
//
// At most one code is live per principal. Requesting a code while one is still
// live returns the stored code unchanged, so a code already delivered to the user
// is never invalidated by a resend. Verification is a pure read: a wrong guess
// neither consumes nor invalidates the live code.
//
// An expired code and a code that was never requested are indistinguishable.
//
// # What this package must NOT do
//
//   - Look up principals (the principal ID is an opaque string here).
//   - Rate-limit requests or guesses (the caller's boundary owns that).
//   - Delete codes explicitly; codes only ever leave the store through TTL expiry.
package otp
