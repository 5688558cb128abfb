package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/sadopc/vitalog/internal/analytics"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a habit to track."`
	List    HabitListCmd    `cmd:"" help:"List habits with their streaks."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit. Past checks are kept."`
	Check   HabitCheckCmd   `cmd:"" help:"Mark a habit done (or not) for a day."`
}

type HabitAddCmd struct {
	Key   string `arg:"" help:"Short key, e.g. meditate."`
	Name  string `help:"Display name. Defaults to the key."`
	Color string `help:"Hex color for the TUI." default:"#2EC4B6"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	h, err := ctx.Store.CreateHabit(c.Key, c.Name, c.Color)
	if err != nil {
		return err
	}
	ctx.printf("Added habit %s (%s)\n", h.Key, h.Name)
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.ListHabits(c.All)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.printf("No habits yet. Add one with: vitalog habit add <key>\n")
		return nil
	}

	records, err := ctx.allLogs()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tSTREAK\t")
	for _, h := range habits {
		state := ""
		if h.Archived {
			state = "archived"
		}
		n := analytics.CalculateHabitStreak(records, h.Key, ctx.now())
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Key, h.Name, plural(n, "day"), state)
	}
	return w.Flush()
}

type HabitArchiveCmd struct {
	Key string `arg:"" help:"Habit key."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Store.ArchiveHabit(c.Key); err != nil {
		return err
	}
	ctx.printf("Archived habit %s\n", c.Key)
	return nil
}

type HabitCheckCmd struct {
	Key  string `arg:"" help:"Habit key."`
	Date string `arg:"" optional:"" help:"Day to check." default:"today"`
	Undo bool   `help:"Record the habit as not done."`
}

func (c *HabitCheckCmd) Run(ctx *Context) error {
	if _, err := ctx.Store.GetHabit(c.Key); err != nil {
		return err
	}
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	r, err := ctx.Store.SetHabit(ctx.UserID, day, c.Key, !c.Undo)
	if err != nil {
		return err
	}

	records, err := ctx.allLogs()
	if err != nil {
		return err
	}
	n := analytics.CalculateHabitStreak(records, c.Key, ctx.now())

	mark := "✓"
	if c.Undo {
		mark = "✗"
	}
	ctx.printf("%s %s on %s. Streak: %s.\n", mark, c.Key, r.ID, plural(n, "day"))
	return nil
}
