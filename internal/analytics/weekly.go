package analytics

import (
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

// Metric names one of the week-over-week tracked values.
type Metric string

const (
	MetricSleep    Metric = "sleep"    // minutes asleep
	MetricExercise Metric = "exercise" // exercise minutes
	MetricMood     Metric = "mood"
	MetricStress   Metric = "stress"
)

// Metrics is the display order of the weekly metrics.
var Metrics = []Metric{MetricSleep, MetricExercise, MetricMood, MetricStress}

func (m Metric) Label() string {
	switch m {
	case MetricSleep:
		return "Sleep (min)"
	case MetricExercise:
		return "Exercise (min)"
	case MetricMood:
		return "Mood"
	case MetricStress:
		return "Stress"
	}
	return string(m)
}

// Value extracts the metric from r.
func (m Metric) Value(r *dailylog.Record) (int, bool) {
	switch m {
	case MetricSleep:
		return r.SleepMinutes()
	case MetricExercise:
		return r.ExerciseMinutes()
	case MetricMood:
		return r.Mood()
	case MetricStress:
		return r.Stress()
	}
	return 0, false
}

// Averages holds one week's mean per metric. A nil field means no day in
// the window reported that metric.
type Averages struct {
	Sleep    *float64
	Exercise *float64
	Mood     *float64
	Stress   *float64
}

func (a Averages) Get(m Metric) *float64 {
	switch m {
	case MetricSleep:
		return a.Sleep
	case MetricExercise:
		return a.Exercise
	case MetricMood:
		return a.Mood
	case MetricStress:
		return a.Stress
	}
	return nil
}

func (a *Averages) set(m Metric, v *float64) {
	switch m {
	case MetricSleep:
		a.Sleep = v
	case MetricExercise:
		a.Exercise = v
	case MetricMood:
		a.Mood = v
	case MetricStress:
		a.Stress = v
	}
}

type WeeklyAverages struct {
	ThisWeek Averages
	LastWeek Averages
}

// CalculateWeeklyAverages splits records into the 7 days ending today and
// the 7 days before that, and averages each metric over the days that
// reported it.
func CalculateWeeklyAverages(records []dailylog.Record, now time.Time) WeeklyAverages {
	var this, last []*dailylog.Record
	deduped := dailylog.Dedupe(records)
	for i := range deduped {
		r := &deduped[i]
		age := dailylog.DaysBetween(r.Date, now)
		switch {
		case age < 7:
			this = append(this, r)
		case age < 14:
			last = append(last, r)
		}
	}

	var out WeeklyAverages
	for _, m := range Metrics {
		out.ThisWeek.set(m, average(this, m))
		out.LastWeek.set(m, average(last, m))
	}
	return out
}

func average(records []*dailylog.Record, m Metric) *float64 {
	sum, n := 0, 0
	for _, r := range records {
		if v, ok := m.Value(r); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}
