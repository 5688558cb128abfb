package analytics

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

var now = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

// day builds a record daysAgo days before now.
func day(daysAgo int, fn func(r *dailylog.Record)) dailylog.Record {
	r := dailylog.NewRecord("u1", now.AddDate(0, 0, -daysAgo))
	if fn != nil {
		fn(r)
	}
	return *r
}

func completed(r *dailylog.Record) { r.Completed = true }

func meditated(r *dailylog.Record) { r.SetHabit("meditation", true) }

func sleep(min int) func(*dailylog.Record) {
	return func(r *dailylog.Record) {
		r.Sleep = &dailylog.Sleep{TimeAsleep: dailylog.Int(min)}
	}
}

func exercise(min int) func(*dailylog.Record) {
	return func(r *dailylog.Record) {
		r.Exercise = &dailylog.Exercise{Minutes: dailylog.Int(min)}
	}
}

// ============================================================
// Streaks
// ============================================================

func TestStreakEmpty(t *testing.T) {
	if got := CalculateStreak(nil, now); got != 0 {
		t.Fatalf("streak = %d, want 0", got)
	}
}

func TestStreakFiveDays(t *testing.T) {
	var records []dailylog.Record
	for i := 4; i >= 0; i-- {
		records = append(records, day(i, completed))
	}
	if got := CalculateStreak(records, now); got != 5 {
		t.Fatalf("streak = %d, want 5", got)
	}
}

func TestStreakStopsAtIncompleteDay(t *testing.T) {
	records := []dailylog.Record{
		day(2, nil), // not completed
		day(0, completed),
		day(1, completed),
		day(3, completed),
	}
	if got := CalculateStreak(records, now); got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}
}

func TestStreakStopsAtGap(t *testing.T) {
	records := []dailylog.Record{day(0, completed), day(1, completed), day(3, completed), day(4, completed)}
	if got := CalculateStreak(records, now); got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}
}

func TestStreakZeroWithoutToday(t *testing.T) {
	history := []dailylog.Record{day(1, completed), day(2, completed), day(3, completed)}
	if got := CalculateStreak(history, now); got != 0 {
		t.Fatalf("streak without today = %d, want 0", got)
	}

	withOpenToday := append(history, day(0, nil))
	if got := CalculateStreak(withOpenToday, now); got != 0 {
		t.Fatalf("streak with incomplete today = %d, want 0", got)
	}
}

func TestStreakDuplicateKeepsLatest(t *testing.T) {
	stale := day(0, completed)
	stale.UpdatedAt = now.Add(-2 * time.Hour)
	fresh := day(0, nil) // user re-opened today's log
	fresh.UpdatedAt = now.Add(-time.Hour)

	records := []dailylog.Record{stale, fresh, day(1, completed)}
	if got := CalculateStreak(records, now); got != 0 {
		t.Fatalf("streak = %d, want 0 (latest copy of today is incomplete)", got)
	}
}

func TestStreakIgnoresFutureDays(t *testing.T) {
	records := []dailylog.Record{day(-1, completed), day(0, completed), day(1, completed)}
	if got := CalculateStreak(records, now); got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}
}

func TestStreakLocalMidnight(t *testing.T) {
	// Just after midnight in UTC-7 it is still the 19th locally.
	la := time.FixedZone("PDT", -7*3600)
	local := time.Date(2026, time.October, 19, 0, 5, 0, 0, la)
	records := []dailylog.Record{
		*dailylog.NewRecord("u1", time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)),
		*dailylog.NewRecord("u1", time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)),
	}
	records[0].Completed = true
	records[1].Completed = true
	if got := CalculateStreak(records, local); got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}
}

func TestHabitStreak(t *testing.T) {
	records := []dailylog.Record{
		day(0, meditated),
		day(1, meditated),
		day(2, func(r *dailylog.Record) { r.SetHabit("meditation", false) }),
		day(3, meditated),
	}
	if got := CalculateHabitStreak(records, "meditation", now); got != 2 {
		t.Fatalf("habit streak = %d, want 2", got)
	}
	if got := CalculateHabitStreak(records, "journaling", now); got != 0 {
		t.Fatalf("unknown habit streak = %d, want 0", got)
	}
}

func TestHabitStreakIndependentOfCompleted(t *testing.T) {
	records := []dailylog.Record{day(0, meditated), day(1, meditated)}
	if got := CalculateHabitStreak(records, "meditation", now); got != 2 {
		t.Fatalf("habit streak = %d, want 2", got)
	}
	if got := CalculateStreak(records, now); got != 0 {
		t.Fatalf("completion streak = %d, want 0", got)
	}
}

func TestHabitStreakMissingToday(t *testing.T) {
	records := []dailylog.Record{day(1, meditated), day(2, meditated)}
	if got := CalculateHabitStreak(records, "meditation", now); got != 0 {
		t.Fatalf("habit streak = %d, want 0", got)
	}
}

// ============================================================
// Weekly averages
// ============================================================

func TestWeeklyAveragesThisWeekOnly(t *testing.T) {
	records := []dailylog.Record{day(0, sleep(420)), day(2, sleep(420)), day(5, sleep(420))}
	w := CalculateWeeklyAverages(records, now)
	if w.ThisWeek.Sleep == nil || *w.ThisWeek.Sleep != 420 {
		t.Fatalf("this week sleep = %v, want 420", w.ThisWeek.Sleep)
	}
	if w.LastWeek.Sleep != nil {
		t.Fatalf("last week sleep = %v, want nil", *w.LastWeek.Sleep)
	}
	if w.ThisWeek.Exercise != nil {
		t.Fatal("no exercise reported, average should be nil")
	}
}

func TestWeeklyAveragesExcludeMissing(t *testing.T) {
	records := []dailylog.Record{
		day(0, sleep(400)),
		day(1, nil),
		day(2, sleep(500)),
		day(3, exercise(30)),
	}
	w := CalculateWeeklyAverages(records, now)
	if *w.ThisWeek.Sleep != 450 {
		t.Fatalf("sleep = %v, want 450 (missing days excluded)", *w.ThisWeek.Sleep)
	}
	if *w.ThisWeek.Exercise != 30 {
		t.Fatalf("exercise = %v, want 30", *w.ThisWeek.Exercise)
	}
}

func TestWeeklyAveragesWindows(t *testing.T) {
	mood := func(v int) func(*dailylog.Record) {
		return func(r *dailylog.Record) { r.Mindset = &dailylog.Mindset{Mood: dailylog.Int(v), Stress: dailylog.Int(v)} }
	}
	records := []dailylog.Record{
		day(6, mood(4)),  // last day of this week
		day(7, mood(2)),  // first day of last week
		day(13, mood(4)), // last day of last week
		day(14, mood(5)), // outside both
	}
	w := CalculateWeeklyAverages(records, now)
	if *w.ThisWeek.Mood != 4 {
		t.Fatalf("this week mood = %v, want 4", *w.ThisWeek.Mood)
	}
	if *w.LastWeek.Mood != 3 {
		t.Fatalf("last week mood = %v, want 3", *w.LastWeek.Mood)
	}
	if *w.LastWeek.Stress != 3 {
		t.Fatalf("last week stress = %v, want 3", *w.LastWeek.Stress)
	}
}

func TestWeeklyAveragesEmpty(t *testing.T) {
	w := CalculateWeeklyAverages(nil, now)
	for _, m := range Metrics {
		if w.ThisWeek.Get(m) != nil || w.LastWeek.Get(m) != nil {
			t.Fatalf("%s should be nil for empty input", m)
		}
	}
}

// ============================================================
// Trends
// ============================================================

func f(v float64) *float64 { return &v }

func TestCompareWeeks(t *testing.T) {
	tests := []struct {
		name      string
		this      *float64
		last      *float64
		direction Direction
		pct       float64
	}{
		{"up", f(110), f(100), DirectionUp, 10},
		{"down", f(90), f(100), DirectionDown, -10},
		{"small rise", f(104), f(100), DirectionStable, 4},
		{"small fall", f(96), f(100), DirectionStable, -4},
		{"no baseline", f(100), nil, DirectionStable, 0},
		{"no current", nil, f(100), DirectionStable, 0},
		{"zero baseline", f(100), f(0), DirectionStable, 0},
		{"zero current", f(0), f(30), DirectionStable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareWeeks(tt.this, tt.last)
			if got.Direction != tt.direction {
				t.Fatalf("direction = %s, want %s", got.Direction, tt.direction)
			}
			if math.Abs(got.PercentChange-tt.pct) > 1e-9 {
				t.Fatalf("pct = %v, want %v", got.PercentChange, tt.pct)
			}
		})
	}
}

func TestWeeklyTrendsCoversAllMetrics(t *testing.T) {
	trends := WeeklyTrends(WeeklyAverages{
		ThisWeek: Averages{Sleep: f(480)},
		LastWeek: Averages{Sleep: f(400)},
	})
	if len(trends) != len(Metrics) {
		t.Fatalf("len = %d, want %d", len(trends), len(Metrics))
	}
	if trends[MetricSleep].Direction != DirectionUp {
		t.Fatalf("sleep trend = %s, want up", trends[MetricSleep].Direction)
	}
	if trends[MetricMood].Direction != DirectionStable {
		t.Fatal("metrics without data should be stable")
	}
}

func TestLinearTrend(t *testing.T) {
	slope, intercept := LinearTrend([]float64{1, 3, 5, 7})
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Fatalf("fit = %v, %v; want 2, 1", slope, intercept)
	}

	slope, intercept = LinearTrend([]float64{4})
	if slope != 0 || intercept != 4 {
		t.Fatalf("single point fit = %v, %v", slope, intercept)
	}

	slope, _ = LinearTrend(nil)
	if slope != 0 {
		t.Fatal("empty fit should be flat")
	}
}

func TestDailySeries(t *testing.T) {
	records := []dailylog.Record{day(0, sleep(400)), day(2, sleep(300)), day(9, sleep(100))}
	s := DailySeries(records, MetricSleep, now.AddDate(0, 0, -3), 4)

	if !slices.Equal(s.Present, []bool{false, true, false, true}) {
		t.Fatalf("present = %v", s.Present)
	}
	if !slices.Equal(s.Reported(), []float64{300, 400}) {
		t.Fatalf("reported = %v", s.Reported())
	}
	if !slices.Equal(s.Filled(), []float64{0, 300, 300, 400}) {
		t.Fatalf("filled = %v", s.Filled())
	}
	if s.Slope() <= 0 {
		t.Fatalf("slope = %v, want positive", s.Slope())
	}
}

// ============================================================
// Insights
// ============================================================

func week(fn func(i int, r *dailylog.Record)) []dailylog.Record {
	var out []dailylog.Record
	for i := 0; i < 7; i++ {
		i := i
		out = append(out, day(i, func(r *dailylog.Record) { fn(i, r) }))
	}
	return out
}

func TestInsightsLowSleep(t *testing.T) {
	records := week(func(_ int, r *dailylog.Record) { sleep(300)(r); exercise(30)(r) })
	got := GenerateInsights(records)
	if !slices.Contains(got, InsightLowSleep) {
		t.Fatalf("expected low sleep insight, got %v", got)
	}

	records = week(func(_ int, r *dailylog.Record) { sleep(450)(r); exercise(30)(r) })
	if got := GenerateInsights(records); slices.Contains(got, InsightLowSleep) {
		t.Fatalf("unexpected low sleep insight: %v", got)
	}
}

func TestInsightsSleepDividesByWindowLength(t *testing.T) {
	// 4 nights of 420 over 7 records averages 240, under the threshold,
	// even though every reported night was fine.
	records := week(func(i int, r *dailylog.Record) {
		if i < 4 {
			sleep(420)(r)
		}
	})
	if got := GenerateInsights(records); !slices.Contains(got, InsightLowSleep) {
		t.Fatalf("expected low sleep insight, got %v", got)
	}
}

func TestInsightsNoSleepDataCountsAsLowSleep(t *testing.T) {
	// No reported sleep sums to 0 over 7 records, which is under the threshold.
	records := week(func(_ int, r *dailylog.Record) { exercise(20)(r) })
	got := GenerateInsights(records)
	if !slices.Equal(got, []string{InsightLowSleep}) {
		t.Fatalf("insights = %v, want only the low sleep insight", got)
	}
}

func TestInsightsStressAffectsSleep(t *testing.T) {
	stressed := func(quality *int) func(*dailylog.Record) {
		return func(r *dailylog.Record) {
			r.Mindset = &dailylog.Mindset{Stress: dailylog.Int(4)}
			r.Sleep = &dailylog.Sleep{TimeAsleep: dailylog.Int(480), Quality: quality}
		}
	}

	two := []dailylog.Record{day(0, stressed(dailylog.Int(5))), day(1, stressed(dailylog.Int(3))), day(2, stressed(nil))}
	if got := GenerateInsights(two); !slices.Contains(got, InsightStressAffectsSleep) {
		t.Fatalf("expected stress insight, got %v", got)
	}

	// Missing quality counts as good sleep.
	one := []dailylog.Record{day(0, stressed(dailylog.Int(5))), day(1, stressed(nil)), day(2, stressed(nil))}
	if got := GenerateInsights(one); slices.Contains(got, InsightStressAffectsSleep) {
		t.Fatalf("unexpected stress insight: %v", got)
	}
}

func TestInsightsExerciseConsistency(t *testing.T) {
	withDays := func(n int) []dailylog.Record {
		return week(func(i int, r *dailylog.Record) {
			sleep(480)(r)
			if i < n {
				exercise(25)(r)
			} else {
				exercise(0)(r)
			}
		})
	}
	if got := GenerateInsights(withDays(2)); !slices.Contains(got, InsightExerciseConsistency) {
		t.Fatalf("2 days should trigger the exercise insight, got %v", got)
	}
	if got := GenerateInsights(withDays(3)); slices.Contains(got, InsightExerciseConsistency) {
		t.Fatalf("3 days should not trigger the exercise insight, got %v", got)
	}
}

func TestInsightsOnlyLastSevenRecords(t *testing.T) {
	records := week(func(_ int, r *dailylog.Record) { sleep(480)(r); exercise(30)(r) })
	// Older history with no exercise must not count.
	for i := 7; i < 20; i++ {
		records = append(records, day(i, sleep(200)))
	}
	if got := GenerateInsights(records); len(got) != 0 {
		t.Fatalf("expected no insights, got %v", got)
	}
}

func TestInsightsOrder(t *testing.T) {
	records := week(func(_ int, r *dailylog.Record) {
		r.Sleep = &dailylog.Sleep{TimeAsleep: dailylog.Int(300), Quality: dailylog.Int(3)}
		r.Mindset = &dailylog.Mindset{Stress: dailylog.Int(5)}
	})
	got := GenerateInsights(records)
	want := []string{InsightLowSleep, InsightStressAffectsSleep, InsightExerciseConsistency}
	if !slices.Equal(got, want) {
		t.Fatalf("insights = %v, want %v", got, want)
	}
}

func TestInsightsEmpty(t *testing.T) {
	if got := GenerateInsights(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// ============================================================
// Summary
// ============================================================

func TestSummarize(t *testing.T) {
	records := []dailylog.Record{
		day(0, func(r *dailylog.Record) { completed(r); meditated(r); sleep(420)(r) }),
		day(1, func(r *dailylog.Record) { completed(r); meditated(r) }),
	}
	s := Summarize(records, []string{"meditation", "reading"}, now)
	if s.Streak != 2 {
		t.Fatalf("streak = %d", s.Streak)
	}
	if s.HabitStreaks["meditation"] != 2 || s.HabitStreaks["reading"] != 0 {
		t.Fatalf("habit streaks = %v", s.HabitStreaks)
	}
	if s.Weekly.ThisWeek.Sleep == nil || *s.Weekly.ThisWeek.Sleep != 420 {
		t.Fatal("weekly sleep not summarised")
	}
	if len(s.Trends) != len(Metrics) {
		t.Fatal("missing trends")
	}
	if !slices.Contains(s.Insights, InsightExerciseConsistency) {
		t.Fatalf("insights = %v", s.Insights)
	}
}
