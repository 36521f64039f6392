package util

import (
	"time"
)

// ParseReportDate parses dates as they appear in exchange reports,
// e.g. "8/29/2025" or "08/29/2025". Returns (t, true) if parsed.
func ParseReportDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"1/2/2006", "01/02/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKey formats a time as YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
