package store

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var today = dailylog.Day(time.Now())

// saveDay is a test helper that stores a record daysAgo days before today.
func saveDay(t *testing.T, s *Store, userID string, daysAgo int, fn func(r *dailylog.Record)) *dailylog.Record {
	t.Helper()
	r := dailylog.NewRecord(userID, today.AddDate(0, 0, -daysAgo))
	if fn != nil {
		fn(r)
	}
	if err := s.SaveLog(r); err != nil {
		t.Fatalf("save log: %v", err)
	}
	return r
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/vitalog.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	saveDay(t, s, "u1", 0, nil)
	s.Close()

	// Reopen: data survives and migrations do not rerun.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	n, err := s2.CountLogs("u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 log after reopen, got %d", n)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Daily logs
// ============================================================

func TestSaveAndGetLog(t *testing.T) {
	s := newTestStore(t)
	r := saveDay(t, s, "u1", 0, func(r *dailylog.Record) {
		r.Sleep = &dailylog.Sleep{TimeAsleep: dailylog.Int(430), Quality: dailylog.Int(8)}
		r.Exercise = &dailylog.Exercise{Minutes: dailylog.Int(0), Kind: "walk"}
		r.Mindset = &dailylog.Mindset{Stress: dailylog.Int(3)}
		r.Notes = "felt good"
		r.SetHabit("meditation", true)
		r.SetHabit("reading", false)
	})

	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be set after save")
	}

	got, err := s.GetLog("u1", dailylog.FormatDateID(today))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := got.SleepMinutes(); !ok || v != 430 {
		t.Fatalf("sleep = %d,%v", v, ok)
	}
	if v, ok := got.ExerciseMinutes(); !ok || v != 0 {
		t.Fatal("explicit zero exercise must survive as reported")
	}
	if got.Exercise.Kind != "walk" {
		t.Fatalf("kind = %q", got.Exercise.Kind)
	}
	if got.Nutrition != nil || got.Recovery != nil {
		t.Fatal("unreported groups should load as nil")
	}
	if _, ok := got.Mood(); ok {
		t.Fatal("mood was not reported")
	}
	if !got.HabitDone("meditation") || got.HabitDone("reading") {
		t.Fatalf("habits = %v", got.Habits)
	}
	if _, ok := got.Habits["reading"]; !ok {
		t.Fatal("an explicit false habit check should be kept")
	}
	if got.Notes != "felt good" || got.Source != dailylog.SourceManual {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetLogNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetLog("u1", "2020-01-01")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveLogRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	r := dailylog.NewRecord("u1", today)
	r.Mindset = &dailylog.Mindset{Mood: dailylog.Int(9)}
	err := s.SaveLog(r)
	if !errors.Is(err, dailylog.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if n, _ := s.CountLogs("u1"); n != 0 {
		t.Fatal("invalid record must not be stored")
	}
}

func TestSaveLogUpsertKeepsOneRecordPerDay(t *testing.T) {
	s := newTestStore(t)
	first := saveDay(t, s, "u1", 0, func(r *dailylog.Record) { r.SetHabit("meditation", true) })

	again := dailylog.NewRecord("u1", today)
	again.Completed = true
	again.SetHabit("stretch", true)
	if err := s.SaveLog(again); err != nil {
		t.Fatal(err)
	}

	if n, _ := s.CountLogs("u1"); n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
	got, _ := s.GetLog("u1", first.ID)
	if !got.Completed {
		t.Fatal("update lost")
	}
	if got.HabitDone("meditation") || !got.HabitDone("stretch") {
		t.Fatalf("habit checks should be replaced, got %v", got.Habits)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("created_at must survive updates")
	}
}

func TestLogsAreScopedToUser(t *testing.T) {
	s := newTestStore(t)
	saveDay(t, s, "u1", 0, nil)
	saveDay(t, s, "u2", 0, func(r *dailylog.Record) { r.Completed = true })

	got, err := s.GetLog("u1", dailylog.FormatDateID(today))
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Fatal("u2's record leaked into u1")
	}
	list, _ := s.ListLogs(LogFilter{UserID: "u2"})
	if len(list) != 1 {
		t.Fatalf("u2 should see 1 log, got %d", len(list))
	}
}

func TestListLogsFilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 10; i++ {
		saveDay(t, s, "u1", i, func(r *dailylog.Record) { r.SetHabit("walk", i%2 == 0) })
	}

	all, err := s.ListLogs(LogFilter{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 {
		t.Fatalf("expected 10, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !all[i-1].Date.After(all[i].Date) {
			t.Fatal("logs should be newest first")
		}
	}
	for i, r := range all {
		if r.HabitDone("walk") != (i%2 == 0) {
			t.Fatalf("habit checks not attached to %s", r.ID)
		}
	}

	from := today.AddDate(0, 0, -5)
	to := today.AddDate(0, 0, -2)
	ranged, _ := s.ListLogs(LogFilter{UserID: "u1", From: &from, To: &to})
	if len(ranged) != 3 {
		t.Fatalf("expected 3 logs in [-5, -2), got %d", len(ranged))
	}

	limited, _ := s.ListLogs(LogFilter{UserID: "u1", Limit: 4})
	if len(limited) != 4 || limited[0].ID != dailylog.FormatDateID(today) {
		t.Fatalf("limit should keep the newest 4, got %d", len(limited))
	}
}

func TestListLogsEmpty(t *testing.T) {
	s := newTestStore(t)
	logs, err := s.ListLogs(LogFilter{UserID: "nobody"})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected empty, got %d", len(logs))
	}
}

func TestRecentLogs(t *testing.T) {
	s := newTestStore(t)
	for _, i := range []int{0, 6, 13, 14, 30} {
		saveDay(t, s, "u1", i, nil)
	}
	logs, err := s.RecentLogs("u1", time.Now(), 14)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs in the last 14 days, got %d", len(logs))
	}
}

func TestSetCompletedCreatesRecord(t *testing.T) {
	s := newTestStore(t)
	r, err := s.SetCompleted("u1", today, true)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Completed {
		t.Fatal("should be completed")
	}

	r, err = s.SetCompleted("u1", today, false)
	if err != nil {
		t.Fatal(err)
	}
	if r.Completed {
		t.Fatal("should be reopened")
	}
	if n, _ := s.CountLogs("u1"); n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
}

func TestSetHabitPreservesOtherFields(t *testing.T) {
	s := newTestStore(t)
	saveDay(t, s, "u1", 1, func(r *dailylog.Record) {
		r.Sleep = &dailylog.Sleep{TimeAsleep: dailylog.Int(400)}
	})

	r, err := s.SetHabit("u1", today.AddDate(0, 0, -1), "meditation", true)
	if err != nil {
		t.Fatal(err)
	}
	if !r.HabitDone("meditation") {
		t.Fatal("habit not set")
	}
	if v, _ := r.SleepMinutes(); v != 400 {
		t.Fatal("existing fields lost")
	}
}

// ============================================================
// Habits
// ============================================================

func TestCreateAndGetHabit(t *testing.T) {
	s := newTestStore(t)
	h, err := s.CreateHabit("meditation", "Meditate 10 min", "#2EC4B6")
	if err != nil {
		t.Fatal(err)
	}
	if h.Key != "meditation" || h.Name != "Meditate 10 min" || h.Color != "#2EC4B6" {
		t.Fatalf("unexpected habit: %+v", h)
	}
	if h.Archived || h.CreatedAt.IsZero() {
		t.Fatalf("unexpected habit state: %+v", h)
	}
}

func TestCreateHabitDefaultsNameToKey(t *testing.T) {
	s := newTestStore(t)
	h, err := s.CreateHabit("stretch", "", "#000")
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "stretch" {
		t.Fatalf("name = %q", h.Name)
	}
}

func TestCreateHabitDuplicateKey(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateHabit("dup", "A", "#111"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateHabit("dup", "B", "#222"); err == nil {
		t.Fatal("expected error for duplicate habit key")
	}
}

func TestCreateHabitInvalidKey(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateHabit("", "Empty", "#111"); !errors.Is(err, dailylog.ErrInvalidRecord) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetHabit("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListHabitsAndArchive(t *testing.T) {
	s := newTestStore(t)
	s.CreateHabit("b", "Bravo", "#111")
	s.CreateHabit("a", "Alpha", "#222")
	s.CreateHabit("c", "Charlie", "#333")

	if err := s.ArchiveHabit("c"); err != nil {
		t.Fatal(err)
	}

	active, err := s.ListHabits(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 || active[0].Name != "Alpha" || active[1].Name != "Bravo" {
		t.Fatalf("unexpected active habits: %+v", active)
	}

	all, _ := s.ListHabits(true)
	if len(all) != 3 {
		t.Fatalf("expected 3 habits including archived, got %d", len(all))
	}

	keys, _ := s.HabitKeys()
	if len(keys) != 2 || keys[0] != "a" {
		t.Fatalf("keys = %v", keys)
	}
}

func TestArchiveHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.ArchiveHabit("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateHabit(t *testing.T) {
	s := newTestStore(t)
	s.CreateHabit("walk", "Walk", "#111")
	if err := s.UpdateHabit("walk", "Evening walk", "#999"); err != nil {
		t.Fatal(err)
	}
	h, _ := s.GetHabit("walk")
	if h.Name != "Evening walk" || h.Color != "#999" {
		t.Fatalf("update lost: %+v", h)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetIntSetting(SettingSleepGoal, 0); got != 480 {
		t.Fatalf("sleep_goal = %d, want 480", got)
	}
	if got, _ := s.GetSetting(SettingWeekStart); got != "monday" {
		t.Fatalf("week_start = %q", got)
	}
}

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(SettingExerciseGoal, "45"); err != nil {
		t.Fatal(err)
	}
	if got := s.GetIntSetting(SettingExerciseGoal, 0); got != 45 {
		t.Fatalf("exercise_goal = %d", got)
	}
	if err := s.SetSetting("custom", "x"); err != nil {
		t.Fatal(err)
	}
	all, _ := s.GetAllSettings()
	if len(all) != 5 {
		t.Fatalf("expected 5 settings, got %d", len(all))
	}
}

func TestGetIntSettingFallback(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("bad", "abc")
	if got := s.GetIntSetting("bad", 7); got != 7 {
		t.Fatalf("malformed value should fall back, got %d", got)
	}
	if got := s.GetIntSetting("missing", 9); got != 9 {
		t.Fatalf("missing value should fall back, got %d", got)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserIDGeneratedOnce(t *testing.T) {
	s := newTestStore(t)
	id, err := s.UserID()
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 36 {
		t.Fatalf("expected a uuid, got %q", id)
	}
	again, _ := s.UserID()
	if again != id {
		t.Fatal("user id must be stable")
	}
}

func TestGetOrNewLogUsesDefaultSource(t *testing.T) {
	s := newTestStore(t)

	r, err := s.GetOrNewLog("u1", today)
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != dailylog.SourceManual {
		t.Fatalf("source = %q, want manual", r.Source)
	}

	if err := s.SetSetting(SettingDefaultSource, "wearable"); err != nil {
		t.Fatal(err)
	}
	r, err = s.GetOrNewLog("u1", today)
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != dailylog.SourceWearable {
		t.Fatalf("source = %q, want wearable", r.Source)
	}
}

func TestWeekStart(t *testing.T) {
	s := newTestStore(t)
	if got := s.WeekStart(); got != time.Monday {
		t.Fatalf("default week start = %v", got)
	}
	if err := s.SetSetting(SettingWeekStart, "sunday"); err != nil {
		t.Fatal(err)
	}
	if got := s.WeekStart(); got != time.Sunday {
		t.Fatalf("week start = %v, want Sunday", got)
	}
}
