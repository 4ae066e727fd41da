package domain

import "time"

const (
	// DateLayout is used for wish dates and read dates.
	DateLayout = "2006-01-02"
	// TimestampLayout is used for note timestamps.
	TimestampLayout = "2006-01-02 15:04:05"
)

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatTimestamp renders t as YYYY-MM-DD HH:MM:SS.
func FormatTimestamp(t time.Time) string { return t.Format(TimestampLayout) }

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
