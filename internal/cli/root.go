// Package cli holds the kong command implementations.
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

// Context is passed to every command's Run method.
type Context struct {
	Store  *store.Store
	UserID string
	Now    func() time.Time // defaults to time.Now
	Out    io.Writer        // defaults to os.Stdout
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// parseDay resolves a command line date argument against the context clock.
func (c *Context) parseDay(s string) (time.Time, error) {
	d, err := dailylog.ParseDate(strings.TrimSpace(s), c.now())
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// allLogs loads every record of the current user, newest first.
func (c *Context) allLogs() ([]dailylog.Record, error) {
	return c.Store.ListLogs(store.LogFilter{UserID: c.UserID})
}

// FormatRecord renders a record as an indented multi-line block.
func FormatRecord(r *dailylog.Record) string {
	var b strings.Builder

	status := "not completed"
	if r.Completed {
		status = "✓ completed"
	}
	fmt.Fprintf(&b, "%s  %s  (%s)\n", r.ID, status, r.Source)

	line := func(label string, parts ...string) {
		var kept []string
		for _, p := range parts {
			if p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			fmt.Fprintf(&b, "  %-10s %s\n", label, strings.Join(kept, "  "))
		}
	}

	if s := r.Sleep; s != nil {
		line("Sleep", opt(s.TimeAsleep, formatMinutes), opt(s.Quality, func(v int) string { return fmt.Sprintf("quality %d/10", v) }))
	}
	if e := r.Exercise; e != nil {
		line("Exercise",
			opt(e.Minutes, formatMinutes),
			opt(e.Steps, func(v int) string { return fmt.Sprintf("%d steps", v) }),
			e.Kind)
	}
	if n := r.Nutrition; n != nil {
		line("Nutrition",
			opt(n.Calories, func(v int) string { return fmt.Sprintf("%d kcal", v) }),
			opt(n.ProteinG, func(v int) string { return fmt.Sprintf("%d g protein", v) }),
			opt(n.WaterML, func(v int) string { return fmt.Sprintf("%d ml water", v) }))
	}
	if rc := r.Recovery; rc != nil {
		line("Recovery",
			opt(rc.RestingHR, func(v int) string { return fmt.Sprintf("RHR %d", v) }),
			opt(rc.HRV, func(v int) string { return fmt.Sprintf("HRV %d ms", v) }),
			opt(rc.Soreness, func(v int) string { return fmt.Sprintf("soreness %d/10", v) }))
	}
	if m := r.Mindset; m != nil {
		line("Mindset",
			opt(m.Mood, func(v int) string { return fmt.Sprintf("mood %d/5", v) }),
			opt(m.Stress, func(v int) string { return fmt.Sprintf("stress %d/5", v) }),
			opt(m.Energy, func(v int) string { return fmt.Sprintf("energy %d/5", v) }))
	}
	if len(r.Habits) > 0 {
		keys := make([]string, 0, len(r.Habits))
		for k := range r.Habits {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			mark := "✗"
			if r.Habits[k] {
				mark = "✓"
			}
			parts[i] = k + " " + mark
		}
		line("Habits", parts...)
	}
	if r.Notes != "" {
		line("Notes", r.Notes)
	}
	return b.String()
}

func opt(p *int, f func(int) string) string {
	if p == nil {
		return ""
	}
	return f(*p)
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", mins/60, mins%60)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
