package dailylog

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MaxNotesLen    = 2000
	MaxHabitKeyLen = 64
	MaxKindLen     = 64
)

var ErrInvalidRecord = errors.New("invalid record")

// FieldError describes one violated rule on a record field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *FieldError) Unwrap() error { return ErrInvalidRecord }

// Bounds lists the inclusive range of each bounded numeric field.
var Bounds = map[string][2]int{
	"sleep.time_asleep":   {0, 1440},
	"sleep.quality":       {1, 10},
	"exercise.minutes":    {0, 1440},
	"exercise.steps":      {0, 200000},
	"nutrition.calories":  {0, 10000},
	"nutrition.protein_g": {0, 1000},
	"nutrition.water_ml":  {0, 10000},
	"recovery.resting_hr": {20, 250},
	"recovery.hrv":        {0, 300},
	"recovery.soreness":   {1, 10},
	"mindset.mood":        {1, 5},
	"mindset.stress":      {1, 5},
	"mindset.energy":      {1, 5},
}

// InRange reports whether v is inside the bounds registered for field.
// Unknown fields are always in range.
func InRange(field string, v int) bool {
	b, ok := Bounds[field]
	if !ok {
		return true
	}
	return v >= b[0] && v <= b[1]
}

// Validate checks every field rule and returns all violations joined.
func (r *Record) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)})
	}

	if r.UserID == "" {
		add("user_id", "required")
	}
	if r.Date.IsZero() {
		add("date", "required")
	} else if want := FormatDateID(r.Date); r.ID != want {
		add("id", "%q does not match date %s", r.ID, want)
	}
	if !r.Source.Valid() {
		add("source", "unknown source %q", r.Source)
	}
	if n := utf8.RuneCountInString(r.Notes); n > MaxNotesLen {
		add("notes", "%d characters exceeds %d", n, MaxNotesLen)
	}

	check := func(field string, p *int) {
		if p == nil {
			return
		}
		if !InRange(field, *p) {
			b := Bounds[field]
			add(field, "%d outside %d-%d", *p, b[0], b[1])
		}
	}
	if s := r.Sleep; s != nil {
		check("sleep.time_asleep", s.TimeAsleep)
		check("sleep.quality", s.Quality)
	}
	if e := r.Exercise; e != nil {
		check("exercise.minutes", e.Minutes)
		check("exercise.steps", e.Steps)
		if utf8.RuneCountInString(e.Kind) > MaxKindLen {
			add("exercise.kind", "longer than %d characters", MaxKindLen)
		}
	}
	if n := r.Nutrition; n != nil {
		check("nutrition.calories", n.Calories)
		check("nutrition.protein_g", n.ProteinG)
		check("nutrition.water_ml", n.WaterML)
	}
	if rc := r.Recovery; rc != nil {
		check("recovery.resting_hr", rc.RestingHR)
		check("recovery.hrv", rc.HRV)
		check("recovery.soreness", rc.Soreness)
	}
	if m := r.Mindset; m != nil {
		check("mindset.mood", m.Mood)
		check("mindset.stress", m.Stress)
		check("mindset.energy", m.Energy)
	}
	for k := range r.Habits {
		if err := ValidateHabitKey(k); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateHabitKey checks that k is usable as a habit key.
func ValidateHabitKey(k string) error {
	if k == "" {
		return &FieldError{Field: "habits", Msg: "empty habit key"}
	}
	if utf8.RuneCountInString(k) > MaxHabitKeyLen {
		return &FieldError{Field: "habits", Msg: fmt.Sprintf("key %q longer than %d characters", k, MaxHabitKeyLen)}
	}
	return nil
}
