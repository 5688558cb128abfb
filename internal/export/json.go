package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/dailylog"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Summary    *jsonSummary `json:"summary,omitempty"`
	Logs       []jsonLog    `json:"logs"`
}

type jsonSummary struct {
	Streak       int                  `json:"streak"`
	HabitStreaks map[string]int       `json:"habit_streaks,omitempty"`
	ThisWeek     map[string]*float64  `json:"this_week"`
	LastWeek     map[string]*float64  `json:"last_week"`
	Trends       map[string]jsonTrend `json:"trends"`
	Insights     []string             `json:"insights"`
}

type jsonTrend struct {
	Direction     string  `json:"direction"`
	PercentChange float64 `json:"percent_change"`
}

type jsonLog struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Date      string          `json:"date"`
	Sleep     *jsonSleep      `json:"sleep,omitempty"`
	Exercise  *jsonExercise   `json:"exercise,omitempty"`
	Nutrition *jsonNutrition  `json:"nutrition,omitempty"`
	Recovery  *jsonRecovery   `json:"recovery,omitempty"`
	Mindset   *jsonMindset    `json:"mindset,omitempty"`
	Habits    map[string]bool `json:"habits,omitempty"`
	Completed bool            `json:"completed"`
	Notes     string          `json:"notes,omitempty"`
	Source    string          `json:"source"`
	CreatedAt string          `json:"created_at,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

type jsonSleep struct {
	TimeAsleep *int `json:"time_asleep,omitempty"`
	Quality    *int `json:"quality,omitempty"`
}

type jsonExercise struct {
	Minutes *int   `json:"minutes,omitempty"`
	Steps   *int   `json:"steps,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type jsonNutrition struct {
	Calories *int `json:"calories,omitempty"`
	ProteinG *int `json:"protein_g,omitempty"`
	WaterML  *int `json:"water_ml,omitempty"`
}

type jsonRecovery struct {
	RestingHR *int `json:"resting_hr,omitempty"`
	HRV       *int `json:"hrv,omitempty"`
	Soreness  *int `json:"soreness,omitempty"`
}

type jsonMindset struct {
	Mood   *int `json:"mood,omitempty"`
	Stress *int `json:"stress,omitempty"`
	Energy *int `json:"energy,omitempty"`
}

// ToJSON writes records, and the summary when non-nil, to path.
func ToJSON(records []dailylog.Record, summary *analytics.Summary, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
		Logs:       make([]jsonLog, 0, len(records)),
	}
	if summary != nil {
		export.Summary = newJSONSummary(summary)
	}

	for _, r := range records {
		l := jsonLog{
			ID:        r.ID,
			UserID:    r.UserID,
			Date:      dailylog.FormatDateID(r.Date),
			Habits:    r.Habits,
			Completed: r.Completed,
			Notes:     r.Notes,
			Source:    string(r.Source),
			CreatedAt: formatTime(r.CreatedAt),
			UpdatedAt: formatTime(r.UpdatedAt),
		}
		if s := r.Sleep; s != nil {
			l.Sleep = &jsonSleep{TimeAsleep: s.TimeAsleep, Quality: s.Quality}
		}
		if e := r.Exercise; e != nil {
			l.Exercise = &jsonExercise{Minutes: e.Minutes, Steps: e.Steps, Kind: e.Kind}
		}
		if n := r.Nutrition; n != nil {
			l.Nutrition = &jsonNutrition{Calories: n.Calories, ProteinG: n.ProteinG, WaterML: n.WaterML}
		}
		if rc := r.Recovery; rc != nil {
			l.Recovery = &jsonRecovery{RestingHR: rc.RestingHR, HRV: rc.HRV, Soreness: rc.Soreness}
		}
		if m := r.Mindset; m != nil {
			l.Mindset = &jsonMindset{Mood: m.Mood, Stress: m.Stress, Energy: m.Energy}
		}
		export.Logs = append(export.Logs, l)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func newJSONSummary(s *analytics.Summary) *jsonSummary {
	out := &jsonSummary{
		Streak:       s.Streak,
		HabitStreaks: s.HabitStreaks,
		ThisWeek:     make(map[string]*float64),
		LastWeek:     make(map[string]*float64),
		Trends:       make(map[string]jsonTrend),
		Insights:     s.Insights,
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	for _, m := range analytics.Metrics {
		out.ThisWeek[string(m)] = s.Weekly.ThisWeek.Get(m)
		out.LastWeek[string(m)] = s.Weekly.LastWeek.Get(m)
		if t, ok := s.Trends[m]; ok {
			out.Trends[string(m)] = jsonTrend{Direction: string(t.Direction), PercentChange: t.PercentChange}
		}
	}
	return out
}
