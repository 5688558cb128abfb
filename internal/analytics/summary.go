package analytics

import (
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

// Summary bundles everything the dashboard, reports and CLI show.
type Summary struct {
	GeneratedAt  time.Time
	Streak       int
	HabitStreaks map[string]int
	Weekly       WeeklyAverages
	Trends       map[Metric]Trend
	Insights     []string
}

// Summarize runs every aggregation over records as of now.
func Summarize(records []dailylog.Record, habitKeys []string, now time.Time) Summary {
	weekly := CalculateWeeklyAverages(records, now)
	s := Summary{
		GeneratedAt:  now,
		Streak:       CalculateStreak(records, now),
		HabitStreaks: make(map[string]int, len(habitKeys)),
		Weekly:       weekly,
		Trends:       WeeklyTrends(weekly),
		Insights:     GenerateInsights(records),
	}
	for _, k := range habitKeys {
		s.HabitStreaks[k] = CalculateHabitStreak(records, k, now)
	}
	return s
}
