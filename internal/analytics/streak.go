package analytics

import (
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

// CalculateStreak counts consecutive completed days ending today.
// Today must itself be completed; otherwise the streak is 0.
func CalculateStreak(records []dailylog.Record, now time.Time) int {
	return streak(records, now, func(r *dailylog.Record) bool { return r.Completed })
}

// CalculateHabitStreak counts consecutive days ending today on which habitKey was checked off.
func CalculateHabitStreak(records []dailylog.Record, habitKey string, now time.Time) int {
	return streak(records, now, func(r *dailylog.Record) bool { return r.HabitDone(habitKey) })
}

func streak(records []dailylog.Record, now time.Time, qualifies func(*dailylog.Record) bool) int {
	if len(records) == 0 {
		return 0
	}
	byDay := make(map[string]*dailylog.Record, len(records))
	deduped := dailylog.Dedupe(records)
	for i := range deduped {
		byDay[dailylog.FormatDateID(deduped[i].Date)] = &deduped[i]
	}

	today := dailylog.Day(now)
	n := 0
	for i := 0; i < len(deduped); i++ {
		r, ok := byDay[dailylog.FormatDateID(today.AddDate(0, 0, -i))]
		if !ok || !qualifies(r) {
			break
		}
		n++
	}
	return n
}
