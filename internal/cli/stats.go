package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/sadopc/vitalog/internal/analytics"
)

type StreakCmd struct {
	Habit string `help:"Count consecutive days for one habit instead of completed days."`
}

func (c *StreakCmd) Run(ctx *Context) error {
	records, err := ctx.allLogs()
	if err != nil {
		return err
	}
	if c.Habit == "" {
		n := analytics.CalculateStreak(records, ctx.now())
		ctx.printf("Current streak: %s\n", plural(n, "day"))
		return nil
	}
	if _, err := ctx.Store.GetHabit(c.Habit); err != nil {
		return err
	}
	n := analytics.CalculateHabitStreak(records, c.Habit, ctx.now())
	ctx.printf("%s: %s\n", c.Habit, plural(n, "day"))
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	records, err := ctx.allLogs()
	if err != nil {
		return err
	}
	habitKeys, err := ctx.Store.HabitKeys()
	if err != nil {
		return err
	}
	sum := analytics.Summarize(records, habitKeys, ctx.now())

	ctx.printf("Streak: %s\n\n", plural(sum.Streak, "day"))

	w := tabwriter.NewWriter(ctx.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tTHIS WEEK\tLAST WEEK\tTREND")
	for _, m := range analytics.Metrics {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.Label(),
			formatAverage(m, sum.Weekly.ThisWeek.Get(m)),
			formatAverage(m, sum.Weekly.LastWeek.Get(m)),
			formatTrend(sum.Trends[m]))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(habitKeys) > 0 {
		ctx.printf("\nHabit streaks\n")
		w = tabwriter.NewWriter(ctx.out(), 0, 4, 2, ' ', 0)
		for _, k := range habitKeys {
			fmt.Fprintf(w, "  %s\t%s\n", k, plural(sum.HabitStreaks[k], "day"))
		}
		return w.Flush()
	}
	return nil
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *Context) error {
	records, err := ctx.allLogs()
	if err != nil {
		return err
	}
	insights := analytics.GenerateInsights(records)
	if len(insights) == 0 {
		ctx.printf("No insights yet. Keep logging.\n")
		return nil
	}
	for _, s := range insights {
		ctx.printf("• %s\n", s)
	}
	return nil
}

func formatAverage(m analytics.Metric, v *float64) string {
	if v == nil {
		return "-"
	}
	switch m {
	case analytics.MetricSleep, analytics.MetricExercise:
		return fmt.Sprintf("%.0f", *v)
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatTrend(t analytics.Trend) string {
	switch t.Direction {
	case analytics.DirectionUp:
		return fmt.Sprintf("up %+.0f%%", t.PercentChange)
	case analytics.DirectionDown:
		return fmt.Sprintf("down %+.0f%%", t.PercentChange)
	}
	return "stable"
}
