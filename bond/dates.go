package bond

import (
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

var dateLayouts = []string{
	isoDate,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

const secondsPerDay = 24 * 60 * 60

// NormalizeToCalendarDay drops the time of day and the zone of t.
//
// The day is taken from t in UTC and returned as midnight UTC, so every
// instant within one UTC day normalizes identically whatever offset it was
// written with. Callers holding a local trading day should build that date
// with time.Date before calling.
func NormalizeToCalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b. The result
// is negative when a is after b.
func DaysBetween(a, b time.Time) int {
	return int((NormalizeToCalendarDay(b).Unix() - NormalizeToCalendarDay(a).Unix()) / secondsPerDay)
}

// AddMonths shifts t by n months, EDATE style.
//
// The day of month is kept when the target month has it and clamped to the
// target month's last day otherwise: Aug 31 - 6M is Feb 28 (Feb 29 in leap
// years), never Mar 2/3 as time.AddDate would produce. The result is a
// normalized calendar day.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := NormalizeToCalendarDay(t).Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDate parses an ISO calendar date. Timestamps written by some feeds
// ("2026-05-15T00:00:00") are accepted and truncated to their day.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeToCalendarDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}
