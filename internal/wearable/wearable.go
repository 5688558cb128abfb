// Package wearable imports daily summaries exported from fitness devices
// and folds them into the log without overwriting what the user typed.
package wearable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/logger"
	"github.com/sadopc/vitalog/internal/store"
)

// DaySummary is one day as exported by a device. Every metric is optional.
type DaySummary struct {
	Date             string `json:"date"`
	SleepSeconds     *int   `json:"sleep_seconds"`
	SleepScore       *int   `json:"sleep_score"` // 0-100
	Steps            *int   `json:"steps"`
	ActiveMinutes    *int   `json:"active_minutes"`
	ActiveCalories   *int   `json:"active_calories"` // burned, not stored
	RestingHeartRate *int   `json:"resting_heart_rate"`
	HRVMs            *int   `json:"hrv_ms"`
}

// Repository is the slice of the store an import needs.
type Repository interface {
	GetLog(userID, id string) (*dailylog.Record, error)
	SaveLog(r *dailylog.Record) error
}

// Result reports what an import did.
type Result struct {
	BatchID string
	Created int
	Merged  int
	Skipped int // days with no usable metric
	Dropped int // individual values outside their valid range
}

// Decode reads a JSON array of day summaries.
func Decode(r io.Reader) ([]DaySummary, error) {
	var days []DaySummary
	if err := json.NewDecoder(r).Decode(&days); err != nil {
		return nil, fmt.Errorf("decode wearable data: %w", err)
	}
	return days, nil
}

func ReadFile(path string) ([]DaySummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wearable file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Normalize converts a device summary into a wearable-sourced record.
// It returns the number of values dropped for being out of range.
func Normalize(userID string, d DaySummary) (*dailylog.Record, int, error) {
	date, err := parseDay(d.Date)
	if err != nil {
		return nil, 0, err
	}

	rec := dailylog.NewRecord(userID, date)
	rec.Source = dailylog.SourceWearable

	dropped := 0
	keep := func(field string, v *int) *int {
		if v == nil {
			return nil
		}
		if !dailylog.InRange(field, *v) {
			dropped++
			return nil
		}
		return dailylog.Int(*v)
	}

	var asleep, quality *int
	if d.SleepSeconds != nil {
		m := int(math.Round(float64(*d.SleepSeconds) / 60))
		asleep = keep("sleep.time_asleep", &m)
	}
	if d.SleepScore != nil {
		if *d.SleepScore < 0 || *d.SleepScore > 100 {
			dropped++
		} else {
			q := scoreToQuality(*d.SleepScore)
			quality = &q
		}
	}
	rec.Sleep = &dailylog.Sleep{TimeAsleep: asleep, Quality: quality}
	rec.Exercise = &dailylog.Exercise{
		Minutes: keep("exercise.minutes", d.ActiveMinutes),
		Steps:   keep("exercise.steps", d.Steps),
	}
	rec.Recovery = &dailylog.Recovery{
		RestingHR: keep("recovery.resting_hr", d.RestingHeartRate),
		HRV:       keep("recovery.hrv", d.HRVMs),
	}
	rec.Compact()

	return rec, dropped, nil
}

// scoreToQuality maps a 0-100 device score onto the 1-10 quality scale.
func scoreToQuality(score int) int {
	q := int(math.Round(float64(score) / 10))
	if q < 1 {
		q = 1
	}
	return q
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return dailylog.Day(t), nil
	}
	return dailylog.ParseLogID(s)
}

// Import normalises every day first and only then writes, so a malformed
// date anywhere in the batch leaves the store untouched. Values the user
// already entered are never overwritten.
func Import(repo Repository, userID string, days []DaySummary) (Result, error) {
	res := Result{BatchID: uuid.NewString()}

	records := make([]*dailylog.Record, 0, len(days))
	for i, d := range days {
		rec, dropped, err := Normalize(userID, d)
		if err != nil {
			return res, fmt.Errorf("entry %d: %w", i, err)
		}
		res.Dropped += dropped
		records = append(records, rec)
	}

	for _, rec := range records {
		if !hasMetrics(rec) {
			res.Skipped++
			continue
		}

		existing, err := repo.GetLog(userID, rec.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return res, fmt.Errorf("load %s: %w", rec.ID, err)
		}

		merged := dailylog.Merge(existing, rec)
		if err := repo.SaveLog(merged); err != nil {
			return res, fmt.Errorf("save %s: %w", rec.ID, err)
		}
		if existing == nil {
			res.Created++
		} else {
			res.Merged++
		}
	}

	logger.Info("wearable import finished",
		"batch", res.BatchID,
		"created", res.Created,
		"merged", res.Merged,
		"skipped", res.Skipped,
		"dropped", res.Dropped,
	)
	return res, nil
}

func hasMetrics(r *dailylog.Record) bool {
	return r.Sleep != nil || r.Exercise != nil || r.Recovery != nil
}
