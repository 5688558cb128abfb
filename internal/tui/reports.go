package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

// regressionDays is the window the long-term direction is fitted over.
const regressionDays = 30

type reportsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	metric    analytics.Metric // charted metric, sleep or exercise
	offset    int              // weeks back from the current one
	weekStart time.Weekday
	records   []dailylog.Record
	weekly    analytics.WeeklyAverages
	trends    map[analytics.Metric]analytics.Trend

	chart barchart.Model
}

func newReportsModel(s *store.Store, userID string) reportsModel {
	return reportsModel{
		store:     s,
		userID:    userID,
		metric:    analytics.MetricSleep,
		weekStart: s.WeekStart(),
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	records   []dailylog.Record
	weekStart time.Weekday
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		r.weekStart = r.store.WeekStart()
		from, to := r.dateRange()
		// Load through today so weekly averages and the regression window
		// stay complete while paging back.
		today := dailylog.Day(now())
		if floor := today.AddDate(0, 0, 1-regressionDays); floor.Before(from) {
			from = floor
		}
		if end := today.AddDate(0, 0, 1); end.After(to) {
			to = end
		}
		records, err := r.store.ListLogs(store.LogFilter{UserID: r.userID, From: &from, To: &to})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return reportsDataMsg{records: records, weekStart: r.weekStart}
	}
}

// dateRange returns the charted calendar week as [from, to).
func (r reportsModel) dateRange() (time.Time, time.Time) {
	from := dailylog.StartOfWeek(now(), r.weekStart).AddDate(0, 0, -7*r.offset)
	return from, from.AddDate(0, 0, 7)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		t := now()
		r.records = msg.records
		r.weekStart = msg.weekStart
		r.weekly = analytics.CalculateWeeklyAverages(r.records, t)
		r.trends = analytics.WeeklyTrends(r.weekly)
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Toggle):
			if r.metric == analytics.MetricSleep {
				r.metric = analytics.MetricExercise
			} else {
				r.metric = analytics.MetricSleep
			}
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, _ := r.dateRange()
	series := analytics.DailySeries(r.records, r.metric, from, 7)

	style := sleepBarStyle
	if r.metric == analytics.MetricExercise {
		style = exerciseBarStyle
	}

	var bars []barchart.BarData
	for i, v := range series.Values {
		d := from.AddDate(0, 0, i)
		value := barchart.BarValue{Name: r.metric.Label(), Value: v, Style: style}
		if !series.Present[i] {
			value = barchart.BarValue{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: []barchart.BarValue{value},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	sleepTab := inactiveTabStyle.Render("Sleep")
	exerciseTab := inactiveTabStyle.Render("Exercise")
	if r.metric == analytics.MetricSleep {
		sleepTab = activeTabStyle.Render("Sleep")
	} else {
		exerciseTab = activeTabStyle.Render("Exercise")
	}
	metricTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, sleepTab, exerciseTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", metricTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  space: switch metric")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderWeeklyTable(w), "", r.renderDirection(), "", nav,
		),
	)
}

func (r reportsModel) renderWeeklyTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %10s %10s   %s", "Weekly average", "This week", "Last week", "Trend")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 56))))

	for _, m := range analytics.Metrics {
		rows = append(rows, fmt.Sprintf("  %-16s %10s %10s   %s",
			m.Label(),
			formatAverage(m, r.weekly.ThisWeek.Get(m)),
			formatAverage(m, r.weekly.LastWeek.Get(m)),
			trendBadge(r.trends[m]),
		))
	}
	return strings.Join(rows, "\n")
}

// renderDirection shows the least squares slope of each metric over the
// trailing regression window.
func (r reportsModel) renderDirection() string {
	from := dailylog.Day(now()).AddDate(0, 0, 1-regressionDays)
	var parts []string
	for _, m := range analytics.Metrics {
		s := analytics.DailySeries(r.records, m, from, regressionDays)
		if len(s.Reported()) < 2 {
			parts = append(parts, fmt.Sprintf("%s %s", m.Label(), mutedStyle.Render("n/a")))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", m.Label(), slopeLabel(s.Slope())))
	}
	return titleStyle.Render(fmt.Sprintf("%d-day direction", regressionDays)) + "\n  " + strings.Join(parts, "   ")
}

func slopeLabel(slope float64) string {
	text := fmt.Sprintf("%+.2f/day", slope)
	switch {
	case math.Abs(slope) < 0.01:
		return mutedStyle.Render("flat")
	case slope > 0:
		return successStyle.Render("↗ " + text)
	}
	return errorStyle.Render("↘ " + text)
}
