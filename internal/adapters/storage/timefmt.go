package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeLayout is the fixed-width UTC text form of stored timestamps. Every
// value has the same length, so string comparison in SQL matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a TimeLayout value.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// NullTime renders t for a nullable column; the zero time is NULL.
func NullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return FormatTime(t)
}

// ParseNullTime reads a nullable TimeLayout column; NULL is the zero time.
func ParseNullTime(ns sql.NullString) (time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, nil
	}
	return ParseTime(ns.String)
}

// NullString renders s for a nullable column; "" is NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
