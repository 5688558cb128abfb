package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/vitalog/internal/logger"
)

const (
	SettingUserID        = "user_id"
	SettingSleepGoal     = "sleep_goal"    // minutes per night
	SettingExerciseGoal  = "exercise_goal" // minutes per day
	SettingWeekStart     = "week_start"
	SettingDefaultSource = "default_source"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// GetIntSetting returns an integer setting, or fallback when it is unset or malformed.
func (s *Store) GetIntSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// WeekStart returns the configured first day of the week, Monday unless set to sunday.
func (s *Store) WeekStart() time.Weekday {
	if v, err := s.GetSetting(SettingWeekStart); err == nil && v == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// UserID returns the local user id, generating and persisting one on first use.
func (s *Store) UserID() (string, error) {
	id, err := s.GetSetting(SettingUserID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	id = uuid.NewString()
	if err := s.SetSetting(SettingUserID, id); err != nil {
		return "", fmt.Errorf("store user id: %w", err)
	}
	logger.Info("generated user id", "user", id)
	return id, nil
}
