package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

type LogCmd struct {
	Date string `arg:"" optional:"" help:"Day to log: YYYY-MM-DD, today or yesterday." default:"today"`

	Sleep        *int    `help:"Minutes asleep."`
	SleepQuality *int    `name:"sleep-quality" help:"Sleep quality, 1-10."`
	Exercise     *int    `help:"Exercise minutes."`
	Steps        *int    `help:"Step count."`
	Kind         string  `help:"Exercise kind, e.g. run."`
	Calories     *int    `help:"Calories eaten."`
	Protein      *int    `help:"Protein in grams."`
	Water        *int    `help:"Water in millilitres."`
	RestingHR    *int    `name:"resting-hr" help:"Resting heart rate in bpm."`
	HRV          *int    `name:"hrv" help:"Heart rate variability in ms."`
	Soreness     *int    `help:"Muscle soreness, 1-10."`
	Mood         *int    `help:"Mood, 1-5."`
	Stress       *int    `help:"Stress, 1-5."`
	Energy       *int    `help:"Energy, 1-5."`
	Notes        *string `help:"Free-form notes (replaces existing notes)."`

	Habit  []string `short:"H" help:"Habit keys done this day (repeatable)."`
	Missed []string `help:"Habit keys explicitly not done this day."`
	Done   bool     `help:"Mark the day completed."`
	Source string   `help:"Override the record source: manual, wearable or mixed."`
}

func (c *LogCmd) Run(ctx *Context) error {
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	r, err := ctx.Store.GetOrNewLog(ctx.UserID, day)
	if err != nil {
		return err
	}
	manual := c.apply(r)
	for _, k := range c.Habit {
		r.SetHabit(strings.TrimSpace(k), true)
	}
	for _, k := range c.Missed {
		r.SetHabit(strings.TrimSpace(k), false)
	}
	if c.Done {
		r.Completed = true
	}

	switch {
	case c.Source != "":
		r.Source = dailylog.Source(c.Source)
	case manual:
		r.MarkManualEdit()
	}

	if err := ctx.Store.SaveLog(r); err != nil {
		return err
	}
	ctx.printf("Logged %s\n%s", r.ID, FormatRecord(r))
	return nil
}

// apply copies every flag that was given onto r and reports whether any
// measurement changed.
func (c *LogCmd) apply(r *dailylog.Record) bool {
	changed := false
	set := func(dst **int, v *int) {
		if v != nil {
			*dst = dailylog.Int(*v)
			changed = true
		}
	}

	if c.Sleep != nil || c.SleepQuality != nil {
		if r.Sleep == nil {
			r.Sleep = &dailylog.Sleep{}
		}
		set(&r.Sleep.TimeAsleep, c.Sleep)
		set(&r.Sleep.Quality, c.SleepQuality)
	}
	if c.Exercise != nil || c.Steps != nil || c.Kind != "" {
		if r.Exercise == nil {
			r.Exercise = &dailylog.Exercise{}
		}
		set(&r.Exercise.Minutes, c.Exercise)
		set(&r.Exercise.Steps, c.Steps)
		if c.Kind != "" {
			r.Exercise.Kind = c.Kind
			changed = true
		}
	}
	if c.Calories != nil || c.Protein != nil || c.Water != nil {
		if r.Nutrition == nil {
			r.Nutrition = &dailylog.Nutrition{}
		}
		set(&r.Nutrition.Calories, c.Calories)
		set(&r.Nutrition.ProteinG, c.Protein)
		set(&r.Nutrition.WaterML, c.Water)
	}
	if c.RestingHR != nil || c.HRV != nil || c.Soreness != nil {
		if r.Recovery == nil {
			r.Recovery = &dailylog.Recovery{}
		}
		set(&r.Recovery.RestingHR, c.RestingHR)
		set(&r.Recovery.HRV, c.HRV)
		set(&r.Recovery.Soreness, c.Soreness)
	}
	if c.Mood != nil || c.Stress != nil || c.Energy != nil {
		if r.Mindset == nil {
			r.Mindset = &dailylog.Mindset{}
		}
		set(&r.Mindset.Mood, c.Mood)
		set(&r.Mindset.Stress, c.Stress)
		set(&r.Mindset.Energy, c.Energy)
	}
	if c.Notes != nil {
		r.Notes = strings.TrimSpace(*c.Notes)
		changed = true
	}
	return changed
}

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Day to show." default:"today"`
}

func (c *ShowCmd) Run(ctx *Context) error {
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	id := dailylog.FormatDateID(day)
	r, err := ctx.Store.GetLog(ctx.UserID, id)
	if errors.Is(err, store.ErrNotFound) {
		ctx.printf("Nothing logged for %s.\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	ctx.printf("%s", FormatRecord(r))
	return nil
}

type CompleteCmd struct {
	Date string `arg:"" optional:"" help:"Day to mark." default:"today"`
	Undo bool   `help:"Clear the completed flag instead."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	r, err := ctx.Store.SetCompleted(ctx.UserID, day, !c.Undo)
	if err != nil {
		return err
	}

	records, err := ctx.allLogs()
	if err != nil {
		return err
	}
	streak := analytics.CalculateStreak(records, ctx.now())

	if c.Undo {
		ctx.printf("Cleared %s. Current streak: %s.\n", r.ID, plural(streak, "day"))
		return nil
	}
	ctx.printf("Completed %s. Current streak: %s.\n", r.ID, plural(streak, "day"))
	return nil
}

// Validate rejects out-of-range flags before Run touches the store.
func (c *LogCmd) Validate() error {
	checks := []struct {
		field string
		v     *int
	}{
		{"sleep.time_asleep", c.Sleep},
		{"sleep.quality", c.SleepQuality},
		{"exercise.minutes", c.Exercise},
		{"exercise.steps", c.Steps},
		{"nutrition.calories", c.Calories},
		{"nutrition.protein_g", c.Protein},
		{"nutrition.water_ml", c.Water},
		{"recovery.resting_hr", c.RestingHR},
		{"recovery.hrv", c.HRV},
		{"recovery.soreness", c.Soreness},
		{"mindset.mood", c.Mood},
		{"mindset.stress", c.Stress},
		{"mindset.energy", c.Energy},
	}
	if c.Source != "" && !dailylog.Source(c.Source).Valid() {
		return fmt.Errorf("unknown source %q", c.Source)
	}
	for _, ch := range checks {
		if ch.v != nil && !dailylog.InRange(ch.field, *ch.v) {
			b := dailylog.Bounds[ch.field]
			return fmt.Errorf("%s must be between %d and %d", ch.field, b[0], b[1])
		}
	}
	return nil
}
