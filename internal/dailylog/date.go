package dailylog

import (
	"errors"
	"fmt"
	"time"
)

// IDLayout is the canonical zero-padded day identifier layout.
const IDLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Day returns UTC midnight of the civil date t falls on in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDateID formats the civil date of t as YYYY-MM-DD.
func FormatDateID(t time.Time) string {
	return Day(t).Format(IDLayout)
}

// ParseLogID parses a YYYY-MM-DD identifier into UTC midnight of that day.
func ParseLogID(id string) (time.Time, error) {
	t, err := time.Parse(IDLayout, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, id, err)
	}
	return t, nil
}

// ParseDate accepts a day id, an RFC 3339 timestamp, or one of the
// relative words "today" and "yesterday" (resolved against now).
func ParseDate(s string, now time.Time) (time.Time, error) {
	switch s {
	case "", "today":
		return Day(now), nil
	case "yesterday":
		return Day(now).AddDate(0, 0, -1), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return ParseLogID(s)
}

// DaysBetween returns the number of calendar days from a to b.
// It is positive when b is later than a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// StartOfWeek returns the most recent day on or before t that falls on first.
func StartOfWeek(t time.Time, first time.Weekday) time.Time {
	d := Day(t)
	back := (int(d.Weekday()) - int(first) + 7) % 7
	return d.AddDate(0, 0, -back)
}
