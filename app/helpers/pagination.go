package helpers

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ParsePagination reads page/limit query params, falling back to the
// defaults for anything missing, non-numeric, or non-positive.
func ParsePagination(values url.Values) (page, limit int) {
	page = DefaultPage
	limit = DefaultLimit

	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}

// PageCount returns the number of pages needed for total rows at the given
// limit.
func PageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
