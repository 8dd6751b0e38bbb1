package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as seen in loc, normalised to
// midnight UTC so dates compare with Equal/Before regardless of zone.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDate drops the time of day keeping the date in t's own offset.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "YYYY-MM-DD" or a full RFC3339 timestamp. For the latter
// the calendar date is taken in the timestamp's own offset.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return NormalizeDate(t), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar date in loc.
func Today(now func() time.Time, loc *time.Location) time.Time {
	if now == nil {
		now = time.Now
	}
	return DateOf(now(), loc)
}
