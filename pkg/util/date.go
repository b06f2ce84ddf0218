package util

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDate is returned when an input cannot be parsed into a valid
// calendar date.
var ErrInvalidDate = errors.New("invalid date")

// DayFormat is the canonical calendar-date layout used across the service.
const DayFormat = "2006-01-02"

var dayLayouts = []string{
	DayFormat,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDay tries the known calendar layouts plus unix seconds and
// milliseconds. Returns (t, true) in UTC if any worked.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		// Heuristic: values past the year ~33658 in seconds are milliseconds.
		if ts > 1e12 {
			return time.UnixMilli(ts).UTC(), true
		}
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// NormalizeDay canonicalizes any supported date representation to YYYY-MM-DD
// in UTC. The same source instant always yields the same calendar date
// regardless of the host timezone.
func NormalizeDay(s string) (string, error) {
	t, ok := ParseDay(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DayFormat), nil
}

// ParseDayDefault parses a calendar date or returns default if empty/invalid.
func ParseDayDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDay(s); ok {
		return t
	}
	return def
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
