// Package pagination turns (page, per_page, total_items) into a validated item
// range and a metadata block with next/prev links.
//
// The package is pure: it performs no I/O and delegates link construction to a
// caller-supplied [LinkBuilder], so it carries no transport concerns beyond the
// optional [QueryLinks] helper for URL query strings.
//
// A page that starts at or past the end of a non-empty collection is rejected
// with [ErrPageOutOfRange] rather than clamped, so clients know to stop paging.
// Both rejection kinds wrap [ErrInvalidPagination].
package pagination
