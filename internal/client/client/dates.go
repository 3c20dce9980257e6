package client

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutMillis  = "2006-01-02T15:04:05.000Z07:00"
	layoutSeconds = "2006-01-02T15:04:05Z07:00"
)

// parseDate accepts server timestamps with exactly millisecond precision or
// with no fractional part at all.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(layoutMillis, s); err == nil {
		return t, nil
	}
	if !strings.Contains(s, ".") {
		if t, err := time.Parse(layoutSeconds, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %w %q", ErrInvalidResponse, ErrInvalidDate, s)
}

func formatDate(t time.Time) string {
	return t.Format(layoutMillis)
}
