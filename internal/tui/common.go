package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/dailylog"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewLog
	viewHabits
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Log", "Habits", "Reports", "Settings"}

// now is the clock every view reads; tests pin it.
var now = time.Now

// --- Messages ---

type logSavedMsg struct {
	record *dailylog.Record
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// --- Helpers ---

// formatMinutes renders a minute count as "7h05m" or "45m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", mins/60, mins%60)
}

func formatOptional(p *int, suffix string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d%s", *p, suffix)
}

// formatAverage renders a weekly average for metric m, or "-" when absent.
func formatAverage(m analytics.Metric, v *float64) string {
	if v == nil {
		return "-"
	}
	switch m {
	case analytics.MetricSleep, analytics.MetricExercise:
		return formatMinutes(int(*v + 0.5))
	}
	return fmt.Sprintf("%.1f", *v)
}

func trendBadge(t analytics.Trend) string {
	switch t.Direction {
	case analytics.DirectionUp:
		return successStyle.Render(fmt.Sprintf("▲ %+.0f%%", t.PercentChange))
	case analytics.DirectionDown:
		return errorStyle.Render(fmt.Sprintf("▼ %+.0f%%", t.PercentChange))
	}
	return mutedStyle.Render("● stable")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
