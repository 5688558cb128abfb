package dailylog

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ============================================================
// Dates
// ============================================================

func TestFormatDateIDZeroPads(t *testing.T) {
	d := time.Date(2026, time.March, 4, 23, 59, 0, 0, time.UTC)
	if got := FormatDateID(d); got != "2026-03-04" {
		t.Fatalf("FormatDateID = %q, want 2026-03-04", got)
	}
}

func TestFormatDateIDUsesOwnLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2026-03-04 20:00 UTC is already the 5th in Tokyo.
	d := time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC).In(tokyo)
	if got := FormatDateID(d); got != "2026-03-05" {
		t.Fatalf("FormatDateID = %q, want 2026-03-05", got)
	}
}

func TestParseLogIDRoundTrip(t *testing.T) {
	start := time.Date(2023, time.December, 25, 13, 30, 0, 0, time.FixedZone("X", -5*3600))
	for i := 0; i < 800; i += 7 {
		d := start.AddDate(0, 0, i)
		got, err := ParseLogID(FormatDateID(d))
		if err != nil {
			t.Fatalf("ParseLogID: %v", err)
		}
		gy, gm, gd := got.Date()
		wy, wm, wd := d.Date()
		if gy != wy || gm != wm || gd != wd {
			t.Fatalf("round trip of %v gave %v", d, got)
		}
	}
}

func TestParseLogIDInvalid(t *testing.T) {
	for _, in := range []string{"", "2026-13-01", "2026-02-30", "26-01-01", "yesterday"} {
		_, err := ParseLogID(in)
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseLogID(%q) err = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestParseDateRelative(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		in, want string
	}{
		{"", "2026-10-19"},
		{"today", "2026-10-19"},
		{"yesterday", "2026-10-18"},
		{"2026-01-02", "2026-01-02"},
		{"2026-01-02T22:00:00Z", "2026-01-02"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, now)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.in, err)
		}
		if FormatDateID(got) != tt.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", tt.in, FormatDateID(got), tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, time.February, 27, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.March, 2, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("DaysBetween reversed = %d, want -3", got)
	}
}

// ============================================================
// Validation
// ============================================================

func validRecord() *Record {
	r := NewRecord("u1", time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC))
	r.Sleep = &Sleep{TimeAsleep: Int(420), Quality: Int(7)}
	r.Mindset = &Mindset{Mood: Int(4), Stress: Int(2)}
	r.SetHabit("meditation", true)
	return r
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("u1", time.Date(2026, time.October, 19, 22, 15, 0, 0, time.UTC))
	if r.ID != "2026-10-19" {
		t.Fatalf("ID = %q", r.ID)
	}
	if r.Completed {
		t.Fatal("new record should not be completed")
	}
	if r.Source != SourceManual {
		t.Fatalf("Source = %q, want manual", r.Source)
	}
	if r.Date.Hour() != 0 {
		t.Fatal("Date should be normalised to midnight")
	}
}

func TestValidateOK(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateIDMismatch(t *testing.T) {
	r := validRecord()
	r.ID = "2026-10-18"
	err := r.Validate()
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "id:") {
		t.Fatalf("error should name the id field: %v", err)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	r := validRecord()
	r.Sleep.TimeAsleep = Int(1441)
	r.Mindset.Mood = Int(0)
	r.Source = "import"
	r.Habits[""] = true

	err := r.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, field := range []string{"sleep.time_asleep", "mindset.mood", "source", "habits"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("missing violation for %s in %v", field, err)
		}
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatal("expected a FieldError in the chain")
	}
}

func TestValidateBoundaries(t *testing.T) {
	r := validRecord()
	r.Sleep.TimeAsleep = Int(0)
	r.Sleep.Quality = Int(10)
	r.Recovery = &Recovery{RestingHR: Int(20), HRV: Int(300)}
	if err := r.Validate(); err != nil {
		t.Fatalf("boundary values should be valid: %v", err)
	}
}

func TestValidateNotesLength(t *testing.T) {
	r := validRecord()
	r.Notes = strings.Repeat("é", MaxNotesLen)
	if err := r.Validate(); err != nil {
		t.Fatalf("notes at the limit should pass: %v", err)
	}
	r.Notes += "x"
	if err := r.Validate(); err == nil {
		t.Fatal("notes over the limit should fail")
	}
}

// ============================================================
// Dedupe / merge
// ============================================================

func TestDedupeKeepsLatestUpdate(t *testing.T) {
	day := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	old := *NewRecord("u1", day)
	old.UpdatedAt = day.Add(time.Hour)
	fresh := old
	fresh.Completed = true
	fresh.UpdatedAt = day.Add(2 * time.Hour)
	other := *NewRecord("u1", day.AddDate(0, 0, -1))

	out := Dedupe([]Record{fresh, other, old})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "2026-10-19" || !out[0].Completed {
		t.Fatalf("expected the fresher record first, got %+v", out[0])
	}
	if out[1].ID != "2026-10-18" {
		t.Fatalf("expected yesterday second, got %s", out[1].ID)
	}
}

func TestMergeManualWins(t *testing.T) {
	base := validRecord()
	dev := NewRecord("u1", base.Date)
	dev.Source = SourceWearable
	dev.Sleep = &Sleep{TimeAsleep: Int(380), Quality: Int(5)}
	dev.Exercise = &Exercise{Steps: Int(9000)}

	got := Merge(base, dev)
	if *got.Sleep.TimeAsleep != 420 || *got.Sleep.Quality != 7 {
		t.Fatalf("manual sleep should win: %+v", got.Sleep)
	}
	if got.Exercise == nil || *got.Exercise.Steps != 9000 {
		t.Fatal("wearable steps should fill the gap")
	}
	if got.Source != SourceMixed {
		t.Fatalf("Source = %q, want mixed", got.Source)
	}
	if base.Exercise != nil {
		t.Fatal("merge must not mutate base")
	}
}

func TestMergeIntoEmptyBaseTakesOverlaySource(t *testing.T) {
	base := NewRecord("u1", time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC))
	dev := NewRecord("u1", base.Date)
	dev.Source = SourceWearable
	dev.Recovery = &Recovery{HRV: Int(55)}

	got := Merge(base, dev)
	if got.Source != SourceWearable {
		t.Fatalf("Source = %q, want wearable", got.Source)
	}
}

func TestMergeNothingToFill(t *testing.T) {
	base := validRecord()
	dev := NewRecord("u1", base.Date)
	dev.Source = SourceWearable
	dev.Sleep = &Sleep{TimeAsleep: Int(300)}

	got := Merge(base, dev)
	if got.Source != SourceManual {
		t.Fatalf("Source = %q, want manual when overlay adds nothing", got.Source)
	}
}

func TestMergeNilBase(t *testing.T) {
	dev := validRecord()
	got := Merge(nil, dev)
	if got == dev {
		t.Fatal("Merge(nil, x) should copy x")
	}
	if *got.Sleep.TimeAsleep != 420 {
		t.Fatal("copy lost data")
	}
}

func TestCompactDropsEmptyGroups(t *testing.T) {
	r := validRecord()
	r.Nutrition = &Nutrition{}
	r.Compact()
	if r.Nutrition != nil {
		t.Fatal("empty nutrition group should be dropped")
	}
	if r.Sleep == nil {
		t.Fatal("sleep group has data and must stay")
	}
}

func TestMarkManualEdit(t *testing.T) {
	stored := func(src Source) *Record {
		r := validRecord()
		r.Source = src
		r.CreatedAt = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
		return r
	}
	tests := []struct {
		name string
		r    *Record
		want Source
	}{
		{"stored wearable", stored(SourceWearable), SourceMixed},
		{"stored manual", stored(SourceManual), SourceManual},
		{"stored mixed", stored(SourceMixed), SourceMixed},
		{"unsaved wearable", func() *Record { r := validRecord(); r.Source = SourceWearable; return r }(), SourceWearable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.r.MarkManualEdit()
			if tt.r.Source != tt.want {
				t.Errorf("source = %q, want %q", tt.r.Source, tt.want)
			}
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	wed := time.Date(2026, 10, 21, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		t     time.Time
		first time.Weekday
		want  string
	}{
		{"monday week", wed, time.Monday, "2026-10-19"},
		{"sunday week", wed, time.Sunday, "2026-10-18"},
		{"on the first day", time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), time.Monday, "2026-10-19"},
		{"sunday in a monday week", time.Date(2026, 10, 25, 9, 0, 0, 0, time.UTC), time.Monday, "2026-10-19"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDateID(StartOfWeek(tt.t, tt.first)); got != tt.want {
				t.Fatalf("StartOfWeek = %s, want %s", got, tt.want)
			}
		})
	}
}
