package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/export"
	"github.com/sadopc/vitalog/internal/logger"
	"github.com/sadopc/vitalog/internal/store"
)

type exportFormat struct {
	label string
	ext   string
}

var exportFormats = []exportFormat{
	{label: "CSV (one row per day)", ext: "csv"},
	{label: "JSON (logs and summary)", ext: "json"},
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		if i == a.exportCursor {
			rows = append(rows, selectedItemStyle.Render("> "+f.label))
		} else {
			rows = append(rows, normalItemStyle.Render("  "+f.label))
		}
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		a.exportCursor = max(a.exportCursor-1, 0)
	case key.Matches(msg, keys.Down):
		a.exportCursor = min(a.exportCursor+1, len(exportFormats)-1)
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes every log of the user to the home directory.
func (a App) doExport(f exportFormat) tea.Cmd {
	return func() tea.Msg {
		records, err := a.store.ListLogs(store.LogFilter{UserID: a.userID})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		t := now()
		path := filepath.Join(home, fmt.Sprintf("vitalog-export-%s.%s", t.Format("2006-01-02"), f.ext))

		switch f.ext {
		case "json":
			habitKeys, _ := a.store.HabitKeys()
			summary := analytics.Summarize(records, habitKeys, t)
			err = export.ToJSON(records, &summary, path)
		default:
			err = export.ToCSV(records, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s export error: %v", f.ext, err), isError: true}
		}

		logger.Info("exported logs", "path", path, "format", f.ext, "count", len(records))
		return exportDoneMsg{path: path}
	}
}
