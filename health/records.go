package health

import (
	"encoding/json"
	"time"

	"github.com/jrsteele09/polar-health-link/internal/utils"
	"github.com/jrsteele09/polar-health-link/oauthmodel"
)

// ActivityRecord is a normalized daily activity summary. Fields the partner omitted are null.
type ActivityRecord struct {
	Date     string   `json:"date"`
	Calories *int     `json:"calories"`
	Steps    *int     `json:"steps"`
	Distance *float64 `json:"distance"`
	Duration *string  `json:"duration"`
}

type HeartRate struct {
	Average *int `json:"average"`
	Maximum *int `json:"maximum"`
}

// ExerciseRecord is a normalized workout.
type ExerciseRecord struct {
	ID           json.RawMessage `json:"id,omitempty"`
	StartTime    string          `json:"startTime"`
	Sport        string          `json:"sport"`
	Duration     *string         `json:"duration"`
	Calories     *int            `json:"calories"`
	HeartRate    HeartRate       `json:"heartRate"`
	TrainingLoad *float64        `json:"trainingLoad"`
}

// NormalizeActivity maps the partner's wire names onto an ActivityRecord.
func NormalizeActivity(a oauthmodel.ActivityLog) ActivityRecord {
	return ActivityRecord{
		Date:     a.Date,
		Calories: a.ActiveCalories,
		Steps:    a.Steps,
		Distance: a.Distance,
		Duration: a.ActiveTime,
	}
}

func NormalizeExercise(e oauthmodel.Exercise) ExerciseRecord {
	hr := utils.Value(e.HeartRate)
	return ExerciseRecord{
		ID:           e.ID,
		StartTime:    e.StartTime,
		Sport:        e.Sport,
		Duration:     e.Duration,
		Calories:     e.Calories,
		HeartRate:    HeartRate{Average: hr.Average, Maximum: hr.Maximum},
		TrainingLoad: e.TrainingLoad,
	}
}

// Partner timestamps usually carry no zone; those are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// latest returns the record with the greatest timestamp. Records whose timestamp cannot be
// parsed never win; when none parse, or on ties, the later position wins.
func latest[T any](records []T, timestamp func(T) string) (T, bool) {
	if len(records) == 0 {
		return *new(T), false
	}

	best := len(records) - 1
	var bestTime time.Time
	found := false
	for i, r := range records {
		t, ok := parseTimestamp(timestamp(r))
		if !ok {
			continue
		}
		if !found || !t.Before(bestTime) {
			best, bestTime, found = i, t, true
		}
	}
	return records[best], true
}
