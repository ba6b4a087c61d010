package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID converts a path identifier into a row id. Empty, non-numeric, negative and zero values
// are rejected with ErrInvalidID so no query runs with a malformed id.
func ParseID(raw string) (uint, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return uint(n), nil
}
