package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Params holds the caller-supplied page selection.
type Params struct {
	Page    int
	PerPage int
}

// ParseParams reads page and per_page from query values. Missing or
// non-integer values fall back to the defaults (1, 10); explicit non-positive
// integers are kept so Paginate can reject them. Integers too large for int
// saturate to math.MaxInt or math.MinInt, which Paginate also rejects.
func ParseParams(values url.Values) Params {
	return Params{
		Page:    intParam(values, "page", DefaultPage),
		PerPage: intParam(values, "per_page", DefaultPerPage),
	}
}

func intParam(values url.Values, name string, fallback int) int {
	raw := values.Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return math.MinInt
			}
			return math.MaxInt
		}
		return fallback
	}
	return n
}

// QueryLinks returns a [LinkBuilder] that rewrites page and per_page on a copy
// of u, keeping its path and every other query parameter.
func QueryLinks(u *url.URL) LinkBuilder {
	if u == nil {
		return nil
	}
	base := *u
	return func(page, perPage int) string {
		link := base
		q := link.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(perPage))
		link.RawQuery = q.Encode()
		link.Fragment = ""
		return link.RequestURI()
	}
}
