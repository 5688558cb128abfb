package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	sleepGoal     *string
	exerciseGoal  *string
	weekStart     *string
	defaultSource *string
}

func newSettingsModel(s *store.Store) settingsModel {
	sg, eg, ws, ds := "", "", "", ""
	return settingsModel{
		store:         s,
		sleepGoal:     &sg,
		exerciseGoal:  &eg,
		weekStart:     &ws,
		defaultSource: &ds,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.sleepGoal = s.getVal(store.SettingSleepGoal, "480")
	*s.exerciseGoal = s.getVal(store.SettingExerciseGoal, "30")
	*s.weekStart = s.getVal(store.SettingWeekStart, "monday")
	*s.defaultSource = s.getVal(store.SettingDefaultSource, string(dailylog.SourceManual))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sleep goal (minutes)").Value(s.sleepGoal).
				Validate(minutesValidator(1440)),
			huh.NewInput().Title("Exercise goal (minutes)").Value(s.exerciseGoal).
				Validate(minutesValidator(1440)),
		).Title("Goals"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
			huh.NewSelect[string]().Title("Default source for new entries").
				Options(
					huh.NewOption("Manual", string(dailylog.SourceManual)),
					huh.NewOption("Wearable", string(dailylog.SourceWearable)),
				).Value(s.defaultSource),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func minutesValidator(limit int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("must be a whole number of minutes")
		}
		if n < 0 || n > limit {
			return fmt.Errorf("must be between 0 and %d", limit)
		}
		return nil
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved", false))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		store.SettingSleepGoal:     *s.sleepGoal,
		store.SettingExerciseGoal:  *s.exerciseGoal,
		store.SettingWeekStart:     *s.weekStart,
		store.SettingDefaultSource: *s.defaultSource,
	}
	for k, v := range values {
		if err := s.store.SetSetting(k, v); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingSleepGoal, store.SettingExerciseGoal:
		if mins, err := strconv.Atoi(v); err == nil {
			return formatMinutes(mins)
		}
	}
	return v
}
