package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/logger"
)

const logColumns = `user_id, id, date,
	sleep_minutes, sleep_quality,
	exercise_minutes, steps, exercise_kind,
	calories, protein_g, water_ml,
	resting_hr, hrv, soreness,
	mood, stress, energy,
	completed, notes, source, created_at, updated_at`

// SaveLog validates r and inserts or replaces the day it describes.
// created_at survives updates; updated_at is refreshed. On success r is
// reloaded from the database.
func (s *Store) SaveLog(r *dailylog.Record) error {
	if r.ID == "" && !r.Date.IsZero() {
		r.ID = dailylog.FormatDateID(r.Date)
	}
	if r.Source == "" {
		r.Source = dailylog.SourceManual
	}
	r.Compact()
	if err := r.Validate(); err != nil {
		return fmt.Errorf("save log %s: %w", r.ID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sl, ex, nu, rc, md := groups(r)
	_, err = tx.Exec(`
		INSERT INTO daily_logs (`+logColumns+`)
		VALUES (`+placeholders(22)+`)
		ON CONFLICT(user_id, id) DO UPDATE SET
			sleep_minutes = excluded.sleep_minutes,
			sleep_quality = excluded.sleep_quality,
			exercise_minutes = excluded.exercise_minutes,
			steps = excluded.steps,
			exercise_kind = excluded.exercise_kind,
			calories = excluded.calories,
			protein_g = excluded.protein_g,
			water_ml = excluded.water_ml,
			resting_hr = excluded.resting_hr,
			hrv = excluded.hrv,
			soreness = excluded.soreness,
			mood = excluded.mood,
			stress = excluded.stress,
			energy = excluded.energy,
			completed = excluded.completed,
			notes = excluded.notes,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		r.UserID, r.ID, r.ID,
		nullInt(sl.TimeAsleep), nullInt(sl.Quality),
		nullInt(ex.Minutes), nullInt(ex.Steps), ex.Kind,
		nullInt(nu.Calories), nullInt(nu.ProteinG), nullInt(nu.WaterML),
		nullInt(rc.RestingHR), nullInt(rc.HRV), nullInt(rc.Soreness),
		nullInt(md.Mood), nullInt(md.Stress), nullInt(md.Energy),
		boolInt(r.Completed), r.Notes, string(r.Source), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert log %s: %w", r.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM habit_checks WHERE user_id = ? AND log_id = ?`, r.UserID, r.ID); err != nil {
		return fmt.Errorf("clear habit checks: %w", err)
	}
	for k, done := range r.Habits {
		_, err := tx.Exec(
			`INSERT INTO habit_checks (user_id, log_id, habit_key, done) VALUES (?, ?, ?, ?)`,
			r.UserID, r.ID, k, boolInt(done),
		)
		if err != nil {
			return fmt.Errorf("insert habit check %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit log %s: %w", r.ID, err)
	}
	logger.Debug("saved log", "user", r.UserID, "day", r.ID, "completed", r.Completed)

	saved, err := s.GetLog(r.UserID, r.ID)
	if err != nil {
		return err
	}
	*r = *saved
	return nil
}

// GetLog returns the record for one day, or ErrNotFound.
func (s *Store) GetLog(userID, id string) (*dailylog.Record, error) {
	row := s.db.QueryRow(`SELECT `+logColumns+` FROM daily_logs WHERE user_id = ? AND id = ?`, userID, id)
	r, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get log %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get log %s: %w", id, err)
	}

	checks, err := s.habitChecks(userID, id, id)
	if err != nil {
		return nil, err
	}
	r.Habits = checks[id]
	return r, nil
}

// GetOrNewLog returns the stored record for date, or a fresh unsaved one
// tagged with the default_source setting.
func (s *Store) GetOrNewLog(userID string, date time.Time) (*dailylog.Record, error) {
	r, err := s.GetLog(userID, dailylog.FormatDateID(date))
	if errors.Is(err, ErrNotFound) {
		r = dailylog.NewRecord(userID, date)
		if def, err := s.GetSetting(SettingDefaultSource); err == nil && dailylog.Source(def).Valid() {
			r.Source = dailylog.Source(def)
		}
		return r, nil
	}
	return r, err
}

// ListLogs returns matching records, newest day first.
func (s *Store) ListLogs(f LogFilter) ([]dailylog.Record, error) {
	query := `SELECT ` + logColumns + ` FROM daily_logs WHERE user_id = ?`
	args := []any{f.UserID}

	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, dailylog.FormatDateID(*f.From))
	}
	if f.To != nil {
		query += ` AND date < ?`
		args = append(args, dailylog.FormatDateID(*f.To))
	}
	query += ` ORDER BY date DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var records []dailylog.Record
	for rows.Next() {
		r, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	// records are newest first, so the id range is [last, first].
	checks, err := s.habitChecks(f.UserID, records[len(records)-1].ID, records[0].ID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Habits = checks[records[i].ID]
	}
	return records, nil
}

// RecentLogs returns the records of the last days days up to and including now.
func (s *Store) RecentLogs(userID string, now time.Time, days int) ([]dailylog.Record, error) {
	from := dailylog.Day(now).AddDate(0, 0, -(days - 1))
	to := dailylog.Day(now).AddDate(0, 0, 1)
	return s.ListLogs(LogFilter{UserID: userID, From: &from, To: &to})
}

// SetCompleted marks a day as finished (or reopens it), creating the record if needed.
func (s *Store) SetCompleted(userID string, date time.Time, completed bool) (*dailylog.Record, error) {
	r, err := s.GetOrNewLog(userID, date)
	if err != nil {
		return nil, err
	}
	r.Completed = completed
	if err := s.SaveLog(r); err != nil {
		return nil, err
	}
	return r, nil
}

// SetHabit records a habit check for a day, creating the record if needed.
func (s *Store) SetHabit(userID string, date time.Time, key string, done bool) (*dailylog.Record, error) {
	r, err := s.GetOrNewLog(userID, date)
	if err != nil {
		return nil, err
	}
	r.SetHabit(key, done)
	if err := s.SaveLog(r); err != nil {
		return nil, err
	}
	return r, nil
}

// CountLogs returns how many days userID has logged.
func (s *Store) CountLogs(userID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM daily_logs WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return n, nil
}

// habitChecks loads checks for log ids in [fromID, toID], grouped by log id.
func (s *Store) habitChecks(userID, fromID, toID string) (map[string]map[string]bool, error) {
	rows, err := s.db.Query(
		`SELECT log_id, habit_key, done FROM habit_checks
		 WHERE user_id = ? AND log_id >= ? AND log_id <= ?`,
		userID, fromID, toID,
	)
	if err != nil {
		return nil, fmt.Errorf("list habit checks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]bool)
	for rows.Next() {
		var logID, key string
		var done int
		if err := rows.Scan(&logID, &key, &done); err != nil {
			return nil, err
		}
		if out[logID] == nil {
			out[logID] = make(map[string]bool)
		}
		out[logID][key] = done == 1
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(sc scanner) (*dailylog.Record, error) {
	var (
		r                        dailylog.Record
		date, source             string
		createdAt, updatedAt     string
		completed                int
		sleepMin, sleepQ         sql.NullInt64
		exMin, steps             sql.NullInt64
		kind                     string
		calories, protein, water sql.NullInt64
		rhr, hrv, soreness       sql.NullInt64
		mood, stress, energy     sql.NullInt64
	)
	err := sc.Scan(
		&r.UserID, &r.ID, &date,
		&sleepMin, &sleepQ,
		&exMin, &steps, &kind,
		&calories, &protein, &water,
		&rhr, &hrv, &soreness,
		&mood, &stress, &energy,
		&completed, &r.Notes, &source, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Date, err = dailylog.ParseLogID(date)
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", r.ID, err)
	}
	r.Completed = completed == 1
	r.Source = dailylog.Source(source)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	r.Sleep = &dailylog.Sleep{TimeAsleep: intPtr(sleepMin), Quality: intPtr(sleepQ)}
	r.Exercise = &dailylog.Exercise{Minutes: intPtr(exMin), Steps: intPtr(steps), Kind: kind}
	r.Nutrition = &dailylog.Nutrition{Calories: intPtr(calories), ProteinG: intPtr(protein), WaterML: intPtr(water)}
	r.Recovery = &dailylog.Recovery{RestingHR: intPtr(rhr), HRV: intPtr(hrv), Soreness: intPtr(soreness)}
	r.Mindset = &dailylog.Mindset{Mood: intPtr(mood), Stress: intPtr(stress), Energy: intPtr(energy)}
	r.Compact()
	return &r, nil
}

// groups returns non-nil groups so callers can read fields without nil checks.
func groups(r *dailylog.Record) (dailylog.Sleep, dailylog.Exercise, dailylog.Nutrition, dailylog.Recovery, dailylog.Mindset) {
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
	return sl, ex, nu, rc, md
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
