package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

func (s *Store) CreateHabit(key, name, color string) (*Habit, error) {
	if err := dailylog.ValidateHabitKey(key); err != nil {
		return nil, err
	}
	if name == "" {
		name = key
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO habits (key, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		key, name, color, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return s.GetHabit(key)
}

func (s *Store) GetHabit(key string) (*Habit, error) {
	h := &Habit{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT key, name, color, archived, created_at, updated_at FROM habits WHERE key = ?`, key,
	).Scan(&h.Key, &h.Name, &h.Color, &archived, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get habit %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get habit %q: %w", key, err)
	}
	h.Archived = archived == 1
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	h.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return h, nil
}

func (s *Store) ListHabits(includeArchived bool) ([]Habit, error) {
	query := `SELECT key, name, color, archived, created_at, updated_at FROM habits`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&h.Key, &h.Name, &h.Color, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		h.Archived = archived == 1
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		h.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// HabitKeys returns the keys of all active habits.
func (s *Store) HabitKeys() ([]string, error) {
	habits, err := s.ListHabits(false)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(habits))
	for i, h := range habits {
		keys[i] = h.Key
	}
	return keys, nil
}

func (s *Store) UpdateHabit(key, name, color string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE habits SET name = ?, color = ?, updated_at = ? WHERE key = ?`,
		name, color, now, key,
	)
	if err != nil {
		return fmt.Errorf("update habit %q: %w", key, err)
	}
	return requireRow(res, "habit "+key)
}

// ArchiveHabit hides a habit from the catalogue. Past checks are kept.
func (s *Store) ArchiveHabit(key string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE habits SET archived = 1, updated_at = ? WHERE key = ?`, now, key,
	)
	if err != nil {
		return fmt.Errorf("archive habit %q: %w", key, err)
	}
	return requireRow(res, "habit "+key)
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
