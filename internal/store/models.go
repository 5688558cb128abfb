package store

import "time"

// Habit is an entry in the habit catalogue. Daily checks are stored on the
// log records themselves, keyed by Habit.Key.
type Habit struct {
	Key       string
	Name      string
	Color     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// LogFilter is used to filter daily logs in queries. From is inclusive,
// To exclusive; both compare on the calendar day.
type LogFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}
