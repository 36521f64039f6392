package util

import (
	"strconv"
	"strings"
)

// ParseNumber parses a number that may carry thousands separators or a
// leading currency sign, e.g. "$35,200.00" or "148,364,102".
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
