// Package rate provides the Redis-backed fixed-window counters that throttle
// login-code requests, failed logins, and directory searches.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key suffixes
// under the configured prefix:
//   - rl:code:   login-code requests per phone number
//   - rl:login:  failed logins per phone number
//   - rl:search: searches per caller
//
// A zero budget disables the corresponding limiter.
package rate
