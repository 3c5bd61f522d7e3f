package health

import (
	"fmt"
	"math"
	"time"
)

type InsightType string

const (
	InsightRecentWorkout InsightType = "recent_workout"
	InsightStepGoal      InsightType = "step_goal"
)

const (
	recentWorkoutWindow = 4 * time.Hour
	dailyStepGoal       = 10000
)

// Insight is a presentation message derived from the snapshot. Data is the record it was derived from.
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
	Data    any         `json:"data"`
}

// DeriveInsights never returns nil.
func DeriveInsights(activities []ActivityRecord, exercises []ExerciseRecord, now time.Time) []Insight {
	insights := []Insight{}

	if exercise, ok := latest(exercises, func(e ExerciseRecord) string { return e.StartTime }); ok {
		if insight, ok := recentWorkout(exercise, now); ok {
			insights = append(insights, insight)
		}
	}
	if activity, ok := latest(activities, func(a ActivityRecord) string { return a.Date }); ok {
		if insight, ok := stepGoal(activity); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}

func recentWorkout(exercise ExerciseRecord, now time.Time) (Insight, bool) {
	started, ok := parseTimestamp(exercise.StartTime)
	if !ok {
		return Insight{}, false
	}
	elapsed := now.Sub(started)
	// Start times ahead of now are skipped
	if elapsed < 0 || elapsed >= recentWorkoutWindow {
		return Insight{}, false
	}

	message := fmt.Sprintf("Great %s workout %d hours ago!", exercise.Sport, int(math.Round(elapsed.Hours())))
	if exercise.Calories != nil {
		message += fmt.Sprintf(" You burned %d calories.", *exercise.Calories)
	}
	return Insight{Type: InsightRecentWorkout, Message: message, Data: exercise}, true
}

func stepGoal(activity ActivityRecord) (Insight, bool) {
	if activity.Steps == nil || *activity.Steps <= dailyStepGoal {
		return Insight{}, false
	}
	return Insight{
		Type:    InsightStepGoal,
		Message: fmt.Sprintf("Awesome! You've hit %d steps today! 🎯", *activity.Steps),
		Data:    activity,
	}, true
}
