package analytics

import (
	"github.com/sadopc/vitalog/internal/dailylog"
)

const (
	InsightLowSleep            = "Your average sleep over the last week is under 6 hours. Aim for 7-9 hours to support recovery."
	InsightStressAffectsSleep  = "High-stress days seem to be hurting your sleep quality. Try a wind-down routine on busy days."
	InsightExerciseConsistency = "You exercised fewer than 3 days this week. Regular movement is one of the strongest longevity levers."
)

const (
	insightWindow       = 7
	lowSleepMinutes     = 360
	highStress          = 4
	poorSleepQuality    = 6
	defaultSleepQuality = 10
	stressSleepDays     = 2
	minExerciseDays     = 3
)

// GenerateInsights applies the fixed heuristic rules to the 7 most recent
// records. Messages come out in rule order: sleep, stress vs sleep, exercise.
func GenerateInsights(records []dailylog.Record) []string {
	recent := dailylog.Dedupe(records)
	if len(recent) == 0 {
		return nil
	}
	if len(recent) > insightWindow {
		recent = recent[:insightWindow]
	}

	var insights []string

	// The sum only covers days that reported sleep but is divided by all
	// days in the window, so missing days pull the average down.
	sleepSum := 0
	for i := range recent {
		if v, ok := recent[i].SleepMinutes(); ok {
			sleepSum += v
		}
	}
	if float64(sleepSum)/float64(len(recent)) < lowSleepMinutes {
		insights = append(insights, InsightLowSleep)
	}

	stressedPoorSleep := 0
	for i := range recent {
		stress, ok := recent[i].Stress()
		if !ok || stress < highStress {
			continue
		}
		quality, ok := recent[i].SleepQuality()
		if !ok {
			quality = defaultSleepQuality
		}
		if quality < poorSleepQuality {
			stressedPoorSleep++
		}
	}
	if stressedPoorSleep >= stressSleepDays {
		insights = append(insights, InsightStressAffectsSleep)
	}

	exerciseDays := 0
	for i := range recent {
		if v, ok := recent[i].ExerciseMinutes(); ok && v > 0 {
			exerciseDays++
		}
	}
	if exerciseDays < minExerciseDays {
		insights = append(insights, InsightExerciseConsistency)
	}

	return insights
}
