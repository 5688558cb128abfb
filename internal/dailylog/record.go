package dailylog

import (
	"time"
)

// Source tags where a day's data came from.
type Source string

const (
	SourceManual   Source = "manual"
	SourceWearable Source = "wearable"
	SourceMixed    Source = "mixed"
)

func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceWearable, SourceMixed:
		return true
	}
	return false
}

type Sleep struct {
	TimeAsleep *int // minutes
	Quality    *int // 1-10
}

type Exercise struct {
	Minutes *int
	Steps   *int
	Kind    string
}

type Nutrition struct {
	Calories *int
	ProteinG *int
	WaterML  *int
}

type Recovery struct {
	RestingHR *int // bpm
	HRV       *int // ms
	Soreness  *int // 1-10
}

type Mindset struct {
	Mood   *int // 1-5
	Stress *int // 1-5
	Energy *int // 1-5
}

// Record is one user's health log for one calendar day.
// A nil group or field means "not reported", which is not the same as zero.
type Record struct {
	ID     string // YYYY-MM-DD, always FormatDateID(Date)
	UserID string
	Date   time.Time

	Sleep     *Sleep
	Exercise  *Exercise
	Nutrition *Nutrition
	Recovery  *Recovery
	Mindset   *Mindset

	Habits    map[string]bool
	Completed bool
	Notes     string
	Source    Source

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord returns an empty, not yet completed manual record for the day containing date.
func NewRecord(userID string, date time.Time) *Record {
	d := Day(date)
	return &Record{
		ID:     FormatDateID(d),
		UserID: userID,
		Date:   d,
		Source: SourceManual,
	}
}

// MarkManualEdit notes that a measurement was entered by hand. A stored
// wearable record becomes mixed; unsaved records keep their source.
func (r *Record) MarkManualEdit() {
	if r.Source == SourceWearable && !r.CreatedAt.IsZero() {
		r.Source = SourceMixed
	}
}

// Int returns a pointer to v. Handy for filling optional fields.
func Int(v int) *int { return &v }

// SleepMinutes and the accessors below return the field and whether it was reported.
func (r *Record) SleepMinutes() (int, bool) {
	if r.Sleep == nil || r.Sleep.TimeAsleep == nil {
		return 0, false
	}
	return *r.Sleep.TimeAsleep, true
}

func (r *Record) SleepQuality() (int, bool) {
	if r.Sleep == nil || r.Sleep.Quality == nil {
		return 0, false
	}
	return *r.Sleep.Quality, true
}

func (r *Record) ExerciseMinutes() (int, bool) {
	if r.Exercise == nil || r.Exercise.Minutes == nil {
		return 0, false
	}
	return *r.Exercise.Minutes, true
}

func (r *Record) Mood() (int, bool) {
	if r.Mindset == nil || r.Mindset.Mood == nil {
		return 0, false
	}
	return *r.Mindset.Mood, true
}

func (r *Record) Stress() (int, bool) {
	if r.Mindset == nil || r.Mindset.Stress == nil {
		return 0, false
	}
	return *r.Mindset.Stress, true
}

// HabitDone reports whether habit key was explicitly checked off that day.
func (r *Record) HabitDone(key string) bool {
	return r.Habits != nil && r.Habits[key]
}

// SetHabit records a habit check, allocating the map on first use.
func (r *Record) SetHabit(key string, done bool) {
	if r.Habits == nil {
		r.Habits = make(map[string]bool)
	}
	r.Habits[key] = done
}

// Clone returns a deep copy so callers can mutate groups without aliasing.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.Sleep != nil {
		s := Sleep{TimeAsleep: cloneInt(r.Sleep.TimeAsleep), Quality: cloneInt(r.Sleep.Quality)}
		c.Sleep = &s
	}
	if r.Exercise != nil {
		e := Exercise{Minutes: cloneInt(r.Exercise.Minutes), Steps: cloneInt(r.Exercise.Steps), Kind: r.Exercise.Kind}
		c.Exercise = &e
	}
	if r.Nutrition != nil {
		n := Nutrition{Calories: cloneInt(r.Nutrition.Calories), ProteinG: cloneInt(r.Nutrition.ProteinG), WaterML: cloneInt(r.Nutrition.WaterML)}
		c.Nutrition = &n
	}
	if r.Recovery != nil {
		rc := Recovery{RestingHR: cloneInt(r.Recovery.RestingHR), HRV: cloneInt(r.Recovery.HRV), Soreness: cloneInt(r.Recovery.Soreness)}
		c.Recovery = &rc
	}
	if r.Mindset != nil {
		m := Mindset{Mood: cloneInt(r.Mindset.Mood), Stress: cloneInt(r.Mindset.Stress), Energy: cloneInt(r.Mindset.Energy)}
		c.Mindset = &m
	}
	if r.Habits != nil {
		c.Habits = make(map[string]bool, len(r.Habits))
		for k, v := range r.Habits {
			c.Habits[k] = v
		}
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
