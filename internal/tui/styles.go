package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#2EC4B6") // teal
	colorSecondary = lipgloss.Color("#6C63FF")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
	colorSleep     = lipgloss.Color("#7AA2F7")
	colorExercise  = lipgloss.Color("#FF9E64")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(1, 2)
}

var (
	activeTabStyle = fg(colorPrimary).Bold(true).Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)
	inactiveTabStyle = fg(colorMuted).Padding(0, 1)

	panelStyle       = boxed(colorSubtle)
	activePanelStyle = boxed(colorPrimary)

	streakStyle     = fg(colorSecondary).Bold(true).Align(lipgloss.Center)
	streakZeroStyle = fg(colorMuted).Bold(true).Align(lipgloss.Center)

	titleStyle     = fg(colorFg).Bold(true)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)

	sleepBarStyle    = fg(colorSleep)
	exerciseBarStyle = fg(colorExercise)
)
