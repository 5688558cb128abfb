package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

// sparkDays is how many trailing days the sleep sparkline covers.
const sparkDays = 14

type dashboardModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	day       string // id of the day the data was loaded for
	today     *dailylog.Record
	summary   analytics.Summary
	habits    []store.Habit
	sleep     analytics.Series
	sleepGoal int
}

func newDashboardModel(s *store.Store, userID string) dashboardModel {
	return dashboardModel{store: s, userID: userID}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	day       string
	today     *dailylog.Record
	summary   analytics.Summary
	habits    []store.Habit
	sleep     analytics.Series
	sleepGoal int
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		t := now()
		records, err := d.store.RecentLogs(d.userID, t, 30)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		habits, _ := d.store.ListHabits(false)
		habitKeys := make([]string, len(habits))
		for i, h := range habits {
			habitKeys[i] = h.Key
		}
		today, _ := d.store.GetOrNewLog(d.userID, t)

		from := dailylog.Day(t).AddDate(0, 0, 1-sparkDays)
		return dashboardDataMsg{
			day:       dailylog.FormatDateID(t),
			today:     today,
			summary:   analytics.Summarize(records, habitKeys, t),
			habits:    habits,
			sleep:     analytics.DailySeries(records, analytics.MetricSleep, from, sparkDays),
			sleepGoal: d.store.GetIntSetting(store.SettingSleepGoal, 480),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.day = msg.day
		d.today = msg.today
		d.summary = msg.summary
		d.habits = msg.habits
		d.sleep = msg.sleep
		d.sleepGoal = msg.sleepGoal
		return d, nil

	case tickMsg:
		// Reload once the calendar day rolls over.
		if d.day != "" && dailylog.FormatDateID(now()) != d.day {
			return d, d.loadData()
		}
		return d, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Complete) {
			return d, d.toggleCompleted()
		}
	}
	return d, nil
}

func (d dashboardModel) toggleCompleted() tea.Cmd {
	done := d.today == nil || !d.today.Completed
	return func() tea.Msg {
		r, err := d.store.SetCompleted(d.userID, now(), done)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return logSavedMsg{record: r}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderStreakPanel(contentWidth),
		d.renderTodayPanel(contentWidth),
		d.renderSleepPanel(contentWidth),
		d.renderInsightsPanel(contentWidth),
	)
}

func (d dashboardModel) renderStreakPanel(w int) string {
	streak := d.summary.Streak
	style := streakStyle
	if streak == 0 {
		style = streakZeroStyle
	}
	big := style.Width(w - 6).Render(plural(streak, "day") + " streak")

	status := warningStyle.Render("○  today not completed")
	hint := mutedStyle.Render("Press c to mark today complete")
	if d.today != nil && d.today.Completed {
		status = successStyle.Render("✓  today completed")
		hint = mutedStyle.Render("Press c to undo")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, big, status, hint)
	if streak > 0 {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	if d.today == nil {
		return panelStyle.Width(w).Render(title + "\n" + mutedStyle.Render("Nothing logged yet"))
	}
	r := d.today

	var rows []string
	rows = append(rows, fmt.Sprintf("%s  %s", title, mutedStyle.Render(r.ID)))

	sleep := "-"
	if m, ok := r.SleepMinutes(); ok {
		sleep = formatMinutes(m)
		if m < d.sleepGoal {
			sleep = warningStyle.Render(sleep)
		}
	}
	exercise := "-"
	if m, ok := r.ExerciseMinutes(); ok {
		exercise = formatMinutes(m)
	}
	mood, stress := "-", "-"
	if v, ok := r.Mood(); ok {
		mood = fmt.Sprintf("%d/5", v)
	}
	if v, ok := r.Stress(); ok {
		stress = fmt.Sprintf("%d/5", v)
	}
	rows = append(rows, fmt.Sprintf("  Sleep %-10s Exercise %-8s Mood %-5s Stress %s", sleep, exercise, mood, stress))

	if len(d.habits) > 0 {
		var parts []string
		done := 0
		for _, h := range d.habits {
			mark := mutedStyle.Render("○")
			if r.HabitDone(h.Key) {
				mark = successStyle.Render("●")
				done++
			}
			parts = append(parts, fmt.Sprintf("%s %s", mark, h.Name))
		}
		rows = append(rows, fmt.Sprintf("  Habits %d/%d  %s", done, len(d.habits), strings.Join(parts, "  ")))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSleepPanel(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Sleep, last %d days", sparkDays))
	reported := d.sleep.Reported()
	if len(reported) == 0 {
		return panelStyle.Width(w).Render(title + "\n" + mutedStyle.Render("No sleep logged"))
	}

	chartWidth := w - 6
	if chartWidth < 10 {
		chartWidth = 10
	}
	sl := sparkline.New(chartWidth, 4)
	sl.PushAll(d.sleep.Filled())
	sl.Draw()

	avg := 0.0
	for _, v := range reported {
		avg += v
	}
	avg /= float64(len(reported))
	footer := mutedStyle.Render(fmt.Sprintf("avg %s  goal %s", formatMinutes(int(avg+0.5)), formatMinutes(d.sleepGoal)))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, sl.View(), footer))
}

func (d dashboardModel) renderInsightsPanel(w int) string {
	title := titleStyle.Render("Insights")
	if len(d.summary.Insights) == 0 {
		return panelStyle.Width(w).Render(title + "\n" + mutedStyle.Render("Nothing to flag. Keep it up."))
	}
	rows := []string{title}
	for _, in := range d.summary.Insights {
		rows = append(rows, accentStyle.Render("  ! ")+in)
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
