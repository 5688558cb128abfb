package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

// logField binds one numeric record field to a form input.
type logField struct {
	key   string // bounds key, see dailylog.Bounds
	title string
	get   func(r *dailylog.Record) *int
	set   func(r *dailylog.Record, v *int)
}

var logFields = []logField{
	{"sleep.time_asleep", "Sleep (minutes)",
		func(r *dailylog.Record) *int { return sleepOf(r).TimeAsleep },
		func(r *dailylog.Record, v *int) { ensureSleep(r).TimeAsleep = v }},
	{"sleep.quality", "Sleep quality (1-10)",
		func(r *dailylog.Record) *int { return sleepOf(r).Quality },
		func(r *dailylog.Record, v *int) { ensureSleep(r).Quality = v }},
	{"exercise.minutes", "Exercise (minutes)",
		func(r *dailylog.Record) *int { return exerciseOf(r).Minutes },
		func(r *dailylog.Record, v *int) { ensureExercise(r).Minutes = v }},
	{"exercise.steps", "Steps",
		func(r *dailylog.Record) *int { return exerciseOf(r).Steps },
		func(r *dailylog.Record, v *int) { ensureExercise(r).Steps = v }},
	{"nutrition.calories", "Calories",
		func(r *dailylog.Record) *int { return nutritionOf(r).Calories },
		func(r *dailylog.Record, v *int) { ensureNutrition(r).Calories = v }},
	{"nutrition.protein_g", "Protein (g)",
		func(r *dailylog.Record) *int { return nutritionOf(r).ProteinG },
		func(r *dailylog.Record, v *int) { ensureNutrition(r).ProteinG = v }},
	{"nutrition.water_ml", "Water (ml)",
		func(r *dailylog.Record) *int { return nutritionOf(r).WaterML },
		func(r *dailylog.Record, v *int) { ensureNutrition(r).WaterML = v }},
	{"recovery.resting_hr", "Resting HR (bpm)",
		func(r *dailylog.Record) *int { return recoveryOf(r).RestingHR },
		func(r *dailylog.Record, v *int) { ensureRecovery(r).RestingHR = v }},
	{"recovery.hrv", "HRV (ms)",
		func(r *dailylog.Record) *int { return recoveryOf(r).HRV },
		func(r *dailylog.Record, v *int) { ensureRecovery(r).HRV = v }},
	{"recovery.soreness", "Soreness (1-10)",
		func(r *dailylog.Record) *int { return recoveryOf(r).Soreness },
		func(r *dailylog.Record, v *int) { ensureRecovery(r).Soreness = v }},
	{"mindset.mood", "Mood (1-5)",
		func(r *dailylog.Record) *int { return mindsetOf(r).Mood },
		func(r *dailylog.Record, v *int) { ensureMindset(r).Mood = v }},
	{"mindset.stress", "Stress (1-5)",
		func(r *dailylog.Record) *int { return mindsetOf(r).Stress },
		func(r *dailylog.Record, v *int) { ensureMindset(r).Stress = v }},
	{"mindset.energy", "Energy (1-5)",
		func(r *dailylog.Record) *int { return mindsetOf(r).Energy },
		func(r *dailylog.Record, v *int) { ensureMindset(r).Energy = v }},
}

type logModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	offset int // days before today
	record *dailylog.Record

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	values []*string
	kind   *string
	notes  *string
}

func newLogModel(s *store.Store, userID string) logModel {
	values := make([]*string, len(logFields))
	for i := range values {
		values[i] = new(string)
	}
	kind, notes := "", ""
	return logModel{
		store:  s,
		userID: userID,
		values: values,
		kind:   &kind,
		notes:  &notes,
	}
}

func (l *logModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l logModel) date() time.Time {
	return dailylog.Day(now()).AddDate(0, 0, -l.offset)
}

type logDataMsg struct {
	record *dailylog.Record
}

func (l logModel) refresh() tea.Cmd {
	date := l.date()
	return func() tea.Msg {
		r, err := l.store.GetOrNewLog(l.userID, date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return logDataMsg{record: r}
	}
}

func (l logModel) update(msg tea.Msg) (logModel, tea.Cmd) {
	if l.formActive && l.form != nil {
		return l.updateForm(msg)
	}

	switch msg := msg.(type) {
	case logDataMsg:
		l.record = msg.record
		return l, nil

	case logSavedMsg:
		if msg.record != nil && l.record != nil && msg.record.ID == l.record.ID {
			l.record = msg.record
		}
		return l, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			l.offset++
			return l, l.refresh()
		case key.Matches(msg, keys.Right):
			if l.offset > 0 {
				l.offset--
			}
			return l, l.refresh()
		case key.Matches(msg, keys.Complete):
			if l.record != nil {
				return l, l.setCompleted(!l.record.Completed)
			}
		case key.Matches(msg, keys.Edit):
			if l.record != nil {
				return l.showForm()
			}
		}
	}
	return l, nil
}

func (l logModel) setCompleted(done bool) tea.Cmd {
	date := l.date()
	return func() tea.Msg {
		r, err := l.store.SetCompleted(l.userID, date, done)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return logSavedMsg{record: r}
	}
}

func (l logModel) showForm() (logModel, tea.Cmd) {
	inputs := make([]huh.Field, len(logFields))
	for i, f := range logFields {
		*l.values[i] = formatInput(f.get(l.record))
		inputs[i] = huh.NewInput().
			Title(f.title).
			Value(l.values[i]).
			Validate(boundsValidator(f.key))
	}
	*l.kind = exerciseOf(l.record).Kind
	*l.notes = l.record.Notes

	l.form = huh.NewForm(
		huh.NewGroup(append(inputs[0:4:4],
			huh.NewInput().Title("Exercise kind").CharLimit(dailylog.MaxKindLen).Value(l.kind),
		)...).Title("Sleep & exercise"),
		huh.NewGroup(inputs[4:10]...).Title("Nutrition & recovery"),
		huh.NewGroup(append(inputs[10:13:13],
			huh.NewText().Title("Notes").CharLimit(dailylog.MaxNotesLen).Value(l.notes),
		)...).Title("Mindset"),
	).WithShowHelp(true).WithShowErrors(true)

	l.formActive = true
	return l, l.form.Init()
}

func (l logModel) updateForm(msg tea.Msg) (logModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			l.formActive = false
			l.form = nil
			return l, nil
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.formActive = false
		return l, l.save()
	}

	return l, cmd
}

// save applies the form values to a copy of the loaded record and stores it.
func (l logModel) save() tea.Cmd {
	r, err := l.applyForm()
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	return func() tea.Msg {
		if err := l.store.SaveLog(r); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return logSavedMsg{record: r}
	}
}

func (l logModel) applyForm() (*dailylog.Record, error) {
	r := l.record.Clone()
	edited := false
	for i, f := range logFields {
		v, err := parseOptional(*l.values[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.title, err)
		}
		if !sameInt(f.get(r), v) {
			edited = true
		}
		f.set(r, v)
	}
	kind := strings.TrimSpace(*l.kind)
	notes := strings.TrimSpace(*l.notes)
	if kind != exerciseOf(r).Kind || notes != r.Notes {
		edited = true
	}
	ensureExercise(r).Kind = kind
	r.Notes = notes
	r.Compact()
	if edited {
		r.MarkManualEdit()
	}
	return r, nil
}

func (l logModel) view() string {
	w := l.width - 4

	if l.formActive && l.form != nil {
		title := titleStyle.Render("Log " + dailylog.FormatDateID(l.date()))
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", l.form.View()),
		)
	}

	date := l.date()
	title := titleStyle.Render(date.Format("Monday, Jan 02 2006"))
	if l.offset == 0 {
		title += mutedStyle.Render("  today")
	}

	if l.record == nil {
		return panelStyle.Width(w).Render(title + "\n\n" + mutedStyle.Render("Loading..."))
	}
	r := l.record

	status := warningStyle.Render("○ not completed")
	if r.Completed {
		status = successStyle.Render("✓ completed")
	}

	var rows []string
	rows = append(rows, title, status+mutedStyle.Render("  source: "+string(r.Source)), "")
	for _, f := range logFields {
		label := lipgloss.NewStyle().Width(24).Render(f.title)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(formatOptional(f.get(r), ""))))
	}
	if kind := exerciseOf(r).Kind; kind != "" {
		rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render("Exercise kind"), kind))
	}
	if r.Notes != "" {
		rows = append(rows, "", mutedStyle.Render("  Notes"), "  "+r.Notes)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit  c: toggle completed  ←/→: change day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// --- form helpers ---

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatInput(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// parseOptional reads a form value; blank means not reported.
func parseOptional(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New("must be a whole number")
	}
	return &n, nil
}

func boundsValidator(field string) func(string) error {
	return func(s string) error {
		v, err := parseOptional(s)
		if err != nil || v == nil {
			return err
		}
		if !dailylog.InRange(field, *v) {
			b := dailylog.Bounds[field]
			return fmt.Errorf("must be between %d and %d", b[0], b[1])
		}
		return nil
	}
}

func sleepOf(r *dailylog.Record) dailylog.Sleep {
	if r.Sleep == nil {
		return dailylog.Sleep{}
	}
	return *r.Sleep
}

func exerciseOf(r *dailylog.Record) dailylog.Exercise {
	if r.Exercise == nil {
		return dailylog.Exercise{}
	}
	return *r.Exercise
}

func nutritionOf(r *dailylog.Record) dailylog.Nutrition {
	if r.Nutrition == nil {
		return dailylog.Nutrition{}
	}
	return *r.Nutrition
}

func recoveryOf(r *dailylog.Record) dailylog.Recovery {
	if r.Recovery == nil {
		return dailylog.Recovery{}
	}
	return *r.Recovery
}

func mindsetOf(r *dailylog.Record) dailylog.Mindset {
	if r.Mindset == nil {
		return dailylog.Mindset{}
	}
	return *r.Mindset
}

func ensureSleep(r *dailylog.Record) *dailylog.Sleep {
	if r.Sleep == nil {
		r.Sleep = &dailylog.Sleep{}
	}
	return r.Sleep
}

func ensureExercise(r *dailylog.Record) *dailylog.Exercise {
	if r.Exercise == nil {
		r.Exercise = &dailylog.Exercise{}
	}
	return r.Exercise
}

func ensureNutrition(r *dailylog.Record) *dailylog.Nutrition {
	if r.Nutrition == nil {
		r.Nutrition = &dailylog.Nutrition{}
	}
	return r.Nutrition
}

func ensureRecovery(r *dailylog.Record) *dailylog.Recovery {
	if r.Recovery == nil {
		r.Recovery = &dailylog.Recovery{}
	}
	return r.Recovery
}

func ensureMindset(r *dailylog.Record) *dailylog.Mindset {
	if r.Mindset == nil {
		r.Mindset = &dailylog.Mindset{}
	}
	return r.Mindset
}
