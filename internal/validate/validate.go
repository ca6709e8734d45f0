package validate

import (
	"strconv"
	"strings"
)

// Count parses the optional import count. Empty means "all" (0); any other
// value must be an integer. Non-positive counts also mean "all".
func Count(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

// ID parses a product identifier as issued by the catalog.
func ID(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
