// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the number of rows returned by paged list endpoints
// when the caller does not ask for a specific limit.
const DefaultLimit = 50

// MaxLimit caps what a caller may request in one page.
const MaxLimit = 200

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxLimit]. Returns DefaultLimit if absent or invalid.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// LimitPlusOne returns limit+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasMore).
func LimitPlusOne(limit int) int64 { return int64(limit + 1) }

// Trim trims a slice fetched with LimitPlusOne down to limit,
// modifying it in place, and reports whether another page exists.
func Trim[T any](rows *[]T, limit int) (hasMore bool) {
	if len(*rows) > limit {
		*rows = (*rows)[:limit]
		return true
	}
	return false
}
