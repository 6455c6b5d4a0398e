package pagination

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

var (
	// ErrInvalidPagination is the umbrella error for every rejected request.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrInvalidRange is returned for non-positive page/per_page or an overflowing range.
	ErrInvalidRange = fmt.Errorf("%w: invalid range", ErrInvalidPagination)
	// ErrPageOutOfRange is returned when a page starts past the end of a non-empty collection.
	ErrPageOutOfRange = fmt.Errorf("%w: page out of range", ErrInvalidPagination)
)

// Range is a half-open item range [Start, Stop).
type Range struct {
	Start int
	Stop  int
}

// Len returns the number of items in the range.
func (r Range) Len() int {
	return r.Stop - r.Start
}

// LinkBuilder renders the link for a given page. Returning "" omits the link.
type LinkBuilder func(page, perPage int) string

// Metadata is the pagination block returned to clients.
type Metadata struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalItems int     `json:"total_items"`
	TotalPages int     `json:"total_pages"`
	Next       *string `json:"next"`
	Prev       *string `json:"prev"`
}

// Result is the validated slice bounds together with client metadata.
type Result struct {
	Range
	Pagination Metadata
}

// ComputeRange returns the unclamped range of page. It fails with
// [ErrInvalidRange] when page or perPage is not positive or the bounds overflow.
func ComputeRange(page, perPage int) (Range, error) {
	if page <= 0 || perPage <= 0 {
		return Range{}, ErrInvalidRange
	}
	if page-1 > math.MaxInt/perPage {
		return Range{}, ErrInvalidRange
	}

	start := (page - 1) * perPage
	if start > math.MaxInt-perPage {
		return Range{}, ErrInvalidRange
	}
	stop := start + perPage

	if start < 0 || start > stop {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: start, Stop: stop}, nil
}

// Paginate validates page against totalItems and builds the metadata block.
// links may be nil, in which case next/prev are always omitted.
func Paginate(totalItems, page, perPage int, links LinkBuilder) (Result, error) {
	if totalItems < 0 {
		return Result{}, ErrInvalidRange
	}

	current, err := ComputeRange(page, perPage)
	if err != nil {
		return Result{}, err
	}
	if totalItems > 0 && current.Start >= totalItems {
		return Result{}, ErrPageOutOfRange
	}

	current = clamp(current, totalItems)

	meta := Metadata{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages(totalItems, perPage),
	}

	if next, err := ComputeRange(page+1, perPage); err == nil && next.Start < totalItems {
		meta.Next = buildLink(links, page+1, perPage)
	}

	if page > 1 {
		if prev, err := ComputeRange(page-1, perPage); err == nil && clamp(prev, totalItems).Len() > 0 {
			meta.Prev = buildLink(links, page-1, perPage)
		}
	}

	return Result{Range: current, Pagination: meta}, nil
}

func clamp(r Range, totalItems int) Range {
	if r.Stop > totalItems {
		r.Stop = totalItems
	}
	if r.Start > r.Stop {
		r.Start = r.Stop
	}
	return r
}

func totalPages(totalItems, perPage int) int {
	pages := totalItems / perPage
	if totalItems%perPage != 0 {
		pages++
	}
	return pages
}

func buildLink(links LinkBuilder, page, perPage int) *string {
	if links == nil {
		return nil
	}
	link := links(page, perPage)
	if link == "" {
		return nil
	}
	return &link
}
