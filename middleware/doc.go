// Package middleware adapts giftauth.Engine authentication to net/http.
//
// [Guard] reads the Authorization header, calls Engine.Authenticate, and hands
// the resolved principal to the wrapped handler as an argument. Nothing is
// stored in the request context.
//
// # What this package must NOT do
//
//   - Parse tokens or touch the TTL store (delegates to the Engine).
//   - Make authorization decisions beyond pass/reject.
package middleware
