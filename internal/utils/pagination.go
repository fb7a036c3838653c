// Package utils holds small helpers for parsing and bounding query-string
// values. Handlers use them to turn untrusted pagination input into safe
// offsets and limits; nothing here knows about complaints or HTTP.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi. Empty or
// unparseable input yields the provided default instead of an error, which is
// the behavior query parameters want: ?limit=abc silently falls back rather
// than failing the request.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampInt bounds v to [min, max]. Used to keep client-supplied page sizes
// and limits inside what a single query may scan.
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
