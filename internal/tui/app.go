package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/logger"
	"github.com/sadopc/vitalog/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	userID string
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	log       logModel
	habits    habitsModel
	reports   reportsModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, userID string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		userID:     userID,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, userID),
		log:        newLogModel(s, userID),
		habits:     newHabitsModel(s, userID),
		reports:    newReportsModel(s, userID),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.dashboard.Init(), tickCmd())
}

// tickCmd fires once a minute so views notice when the day changes.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// tabFor maps the number keys onto views.
func tabFor(msg tea.KeyMsg) (viewState, bool) {
	tabs := []key.Binding{keys.Tab1, keys.Tab2, keys.Tab3, keys.Tab4, keys.Tab5}
	for i, b := range tabs {
		if key.Matches(msg, b) {
			return viewState(i), true
		}
	}
	return 0, false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		h := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, h)
		a.log.setSize(a.width, h)
		a.habits.setSize(a.width, h)
		a.reports.setSize(a.width, h)
		a.settings.setSize(a.width, h)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		if v, ok := tabFor(msg); ok {
			a.activeView = v
			return a, a.refreshCurrentView()
		}
		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case logSavedMsg:
		a.status = "Saved " + msg.record.ID
		var cmd tea.Cmd
		a.log, cmd = a.log.update(msg)
		return a, tea.Batch(cmd, a.dashboard.loadData(), a.refreshCurrentView())

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			logger.Warn("tui", "status", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case dashboardDataMsg:
		// Saves from other views refresh the dashboard too, so the
		// footer streak stays current.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewLog:
		a.log, cmd = a.log.update(msg)
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewLog:
		return a.log.formActive
	case viewHabits:
		return a.habits.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewLog:
		return a.log.refresh()
	case viewHabits:
		return a.habits.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.activeView == viewDashboard:
		content = a.dashboard.view()
	case a.activeView == viewLog:
		content = a.log.view()
	case a.activeView == viewHabits:
		content = a.habits.view()
	case a.activeView == viewReports:
		content = a.reports.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	body := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	content = lipgloss.NewStyle().Width(a.width).Height(body).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		style := inactiveTabStyle
		if viewState(i) == a.activeView {
			style = activeTabStyle
		}
		tabs[i] = style.Render(fmt.Sprintf("%d %s", i+1, name))
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("vitalog") +
		mutedStyle.Render("  "+now().Format("Mon 2 Jan"))
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, lipgloss.NewStyle().Width(gap).Render(""), tabRow))
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	var right string
	if n := a.dashboard.summary.Streak; n > 0 {
		right = successStyle.Render(fmt.Sprintf(" ● %d", n))
	}
	if a.status != "" {
		right += mutedStyle.Render(" " + a.status)
	}

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, lipgloss.NewStyle().Width(gap).Render(""), right)
}
