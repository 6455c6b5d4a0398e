// Package internal contains helper utilities that are intentionally private to giftauth,
// most importantly secure random generation for login codes and bearer tokens.
//
// # Sub-packages
//
//   - rate: Redis-backed fixed-window counters for login-code, login, and search budgets
//
// # What this package must NOT do
//
//   - Export types that appear in the public giftauth API.
//   - Be imported by any package outside the giftauth module.
package internal
