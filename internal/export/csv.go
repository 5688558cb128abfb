package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

var csvHeader = []string{
	"Date", "Completed", "Source",
	"Sleep (min)", "Sleep Quality",
	"Exercise (min)", "Steps", "Exercise Kind",
	"Calories", "Protein (g)", "Water (ml)",
	"Resting HR", "HRV", "Soreness",
	"Mood", "Stress", "Energy",
	"Habits", "Notes", "Updated",
}

func ToCSV(records []dailylog.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := writeCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}

func writeCSV(out io.Writer, records []dailylog.Record) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		var (
			sl dailylog.Sleep
			ex dailylog.Exercise
			nu dailylog.Nutrition
			rc dailylog.Recovery
			md dailylog.Mindset
		)
		if r.Sleep != nil {
			sl = *r.Sleep
		}
		if r.Exercise != nil {
			ex = *r.Exercise
		}
		if r.Nutrition != nil {
			nu = *r.Nutrition
		}
		if r.Recovery != nil {
			rc = *r.Recovery
		}
		if r.Mindset != nil {
			md = *r.Mindset
		}

		row := []string{
			r.ID,
			strconv.FormatBool(r.Completed),
			string(r.Source),
			cell(sl.TimeAsleep), cell(sl.Quality),
			cell(ex.Minutes), cell(ex.Steps), ex.Kind,
			cell(nu.Calories), cell(nu.ProteinG), cell(nu.WaterML),
			cell(rc.RestingHR), cell(rc.HRV), cell(rc.Soreness),
			cell(md.Mood), cell(md.Stress), cell(md.Energy),
			formatHabits(r.Habits),
			r.Notes,
			formatTime(r.UpdatedAt),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// The writer buffers, so write errors only surface after Flush.
	w.Flush()
	return w.Error()
}

// cell renders an optional value; unreported fields stay empty rather than 0.
func cell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// formatHabits renders checks as "key=1;key=0" in key order.
func formatHabits(h map[string]bool) string {
	if len(h) == 0 {
		return ""
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		v := "0"
		if h[k] {
			v = "1"
		}
		parts[i] = k + "=" + v
	}
	return strings.Join(parts, ";")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
