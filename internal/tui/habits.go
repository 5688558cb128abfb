package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

var habitColors = []string{"#2EC4B6", "#6C63FF", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type habitsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	habits       []store.Habit
	today        *dailylog.Record
	streaks      map[string]int
	cursor       int
	showArchived bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formKey   *string
	formName  *string
	formColor *string

	editingKey string
}

func newHabitsModel(s *store.Store, userID string) habitsModel {
	k, name, color := "", "", habitColors[0]
	return habitsModel{
		store:     s,
		userID:    userID,
		streaks:   map[string]int{},
		formKey:   &k,
		formName:  &name,
		formColor: &color,
	}
}

func (h *habitsModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type habitsDataMsg struct {
	habits  []store.Habit
	today   *dailylog.Record
	streaks map[string]int
}

func (h habitsModel) refresh() tea.Cmd {
	showArchived := h.showArchived
	return func() tea.Msg {
		t := now()
		habits, err := h.store.ListHabits(showArchived)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		records, err := h.store.ListLogs(store.LogFilter{UserID: h.userID})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		today, _ := h.store.GetOrNewLog(h.userID, t)

		streaks := make(map[string]int, len(habits))
		for _, hb := range habits {
			streaks[hb.Key] = analytics.CalculateHabitStreak(records, hb.Key, t)
		}
		return habitsDataMsg{habits: habits, today: today, streaks: streaks}
	}
}

func (h habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		h.habits = msg.habits
		h.today = msg.today
		h.streaks = msg.streaks
		if h.cursor >= len(h.habits) {
			h.cursor = max(0, len(h.habits)-1)
		}
		return h, nil

	case tea.KeyMsg:
		return h.updateList(msg)
	}
	return h, nil
}

func (h habitsModel) updateList(msg tea.KeyMsg) (habitsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(msg, keys.Down):
		if h.cursor < len(h.habits)-1 {
			h.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if hb, ok := h.selected(); ok && !hb.Archived {
			return h, h.toggleToday(hb.Key)
		}
	case key.Matches(msg, keys.New):
		return h.showNewForm()
	case key.Matches(msg, keys.Edit):
		if _, ok := h.selected(); ok {
			return h.showEditForm()
		}
	case key.Matches(msg, keys.Delete):
		if hb, ok := h.selected(); ok {
			if err := h.store.ArchiveHabit(hb.Key); err != nil {
				return h, statusCmd(fmt.Sprintf("Error: %v", err), true)
			}
			return h, h.refresh()
		}
	case key.Matches(msg, keys.Archived):
		h.showArchived = !h.showArchived
		return h, h.refresh()
	}
	return h, nil
}

func (h habitsModel) selected() (store.Habit, bool) {
	if h.cursor < 0 || h.cursor >= len(h.habits) {
		return store.Habit{}, false
	}
	return h.habits[h.cursor], true
}

func (h habitsModel) toggleToday(habitKey string) tea.Cmd {
	done := h.today == nil || !h.today.HabitDone(habitKey)
	return func() tea.Msg {
		r, err := h.store.SetHabit(h.userID, now(), habitKey, done)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return logSavedMsg{record: r}
	}
}

func colorOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(habitColors))
	for i, c := range habitColors {
		opts[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	return opts
}

func (h habitsModel) showNewForm() (habitsModel, tea.Cmd) {
	*h.formKey = ""
	*h.formName = ""
	*h.formColor = habitColors[0]
	h.formType = "new"

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Key").Description("Short id used by the CLI, e.g. meditation").
				Value(h.formKey).Validate(dailylog.ValidateHabitKey),
			huh.NewInput().Title("Name").Value(h.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(h.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h habitsModel) showEditForm() (habitsModel, tea.Cmd) {
	hb := h.habits[h.cursor]
	*h.formName = hb.Name
	*h.formColor = hb.Color
	h.formType = "edit"
	h.editingKey = hb.Key

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(h.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(h.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		var err error
		switch h.formType {
		case "new":
			_, err = h.store.CreateHabit(strings.TrimSpace(*h.formKey), strings.TrimSpace(*h.formName), *h.formColor)
		case "edit":
			if name := strings.TrimSpace(*h.formName); name != "" {
				err = h.store.UpdateHabit(h.editingKey, name, *h.formColor)
			}
		}
		if err != nil {
			return h, tea.Batch(statusCmd(fmt.Sprintf("Error: %v", err), true), h.refresh())
		}
		return h, h.refresh()
	}

	return h, cmd
}

func (h habitsModel) view() string {
	if h.formActive && h.form != nil {
		title := titleStyle.Render("New Habit")
		if h.formType == "edit" {
			title = titleStyle.Render("Edit Habit")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View())
		return panelStyle.Width(h.width - 4).Render(content)
	}
	return h.renderList()
}

func (h habitsModel) renderList() string {
	w := h.width - 4
	title := titleStyle.Render("Habits")
	if h.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(h.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-16s %-8s %s", "", "Name", "Key", "Today", "Streak"))
	rows = append(rows, header)

	for i, hb := range h.habits {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(hb.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		today := "○"
		if h.today != nil && h.today.HabitDone(hb.Key) {
			today = "✓"
		}
		if hb.Archived {
			today = "-"
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-16s %-8s %s",
			cursor, colorDot, hb.Name, hb.Key, today, plural(h.streaks[hb.Key], "day")))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: check today  n: new  enter: edit  d: archive  a: archived"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
