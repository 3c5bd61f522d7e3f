package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/polar-health-link/health"
	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/internal/utils"
	"github.com/jrsteele09/polar-health-link/oauthmodel"
	"github.com/stretchr/testify/require"
)

const testUserID = "alice"

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	activities  []oauthmodel.ActivityLog
	exercises   []oauthmodel.Exercise
	activityErr error
	exerciseErr error
}

func (f *fakeFetcher) FetchActivityLogs(_ context.Context, _ string) ([]oauthmodel.ActivityLog, error) {
	return f.activities, f.activityErr
}

func (f *fakeFetcher) FetchExercises(_ context.Context, _ string) ([]oauthmodel.Exercise, error) {
	return f.exercises, f.exerciseErr
}

func buildSnapshot(t *testing.T, f *fakeFetcher) *health.Snapshot {
	t.Helper()

	service, err := health.NewSnapshotService(f, health.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, err)
	snapshot, err := service.BuildSnapshot(context.Background(), testUserID)
	require.NoError(t, err)
	return snapshot
}

func exerciseAt(start time.Time, sport string, calories int) oauthmodel.Exercise {
	return oauthmodel.Exercise{
		ID:        json.RawMessage(`1`),
		StartTime: start.Format("2006-01-02T15:04:05.000"),
		Sport:     sport,
		Calories:  utils.Ptr(calories),
	}
}

func activityWithSteps(date string, steps int) oauthmodel.ActivityLog {
	return oauthmodel.ActivityLog{Date: date, Steps: utils.Ptr(steps)}
}

func insightTypes(insights []health.Insight) []health.InsightType {
	types := []health.InsightType{}
	for _, i := range insights {
		types = append(types, i.Type)
	}
	return types
}

func TestNewSnapshotService_RequiresFetcher(t *testing.T) {
	_, err := health.NewSnapshotService(nil)
	require.Error(t, err)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{})

	require.Equal(t, testUserID, snapshot.UserID)
	require.Equal(t, testNow, snapshot.Timestamp)
	require.Equal(t, health.Summary{DataFreshness: "real-time"}, snapshot.Summary)
	require.NotNil(t, snapshot.Activities)
	require.NotNil(t, snapshot.Exercises)
	require.NotNil(t, snapshot.Insights)
	require.Empty(t, snapshot.Insights)

	body, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"userId": "alice",
		"timestamp": "2025-03-01T12:00:00Z",
		"summary": {"totalActivities": 0, "totalExercises": 0, "dataFreshness": "real-time"},
		"activities": [],
		"exercises": [],
		"insights": []
	}`, string(body))
}

func TestBuildSnapshot_Normalizes(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{
		activities: []oauthmodel.ActivityLog{{
			Date:           "2025-02-28",
			Calories:       utils.Ptr(2400),
			ActiveCalories: utils.Ptr(650),
			Steps:          utils.Ptr(9000),
			Distance:       utils.Ptr(7100.5),
			ActiveTime:     utils.Ptr("PT3H"),
		}},
		exercises: []oauthmodel.Exercise{{
			ID:           json.RawMessage(`"ex-1"`),
			StartTime:    "2025-02-27T08:00:00.000",
			Sport:        "CYCLING",
			Duration:     utils.Ptr("PT1H"),
			Calories:     utils.Ptr(700),
			HeartRate:    &oauthmodel.HeartRate{Average: utils.Ptr(140), Maximum: utils.Ptr(172)},
			TrainingLoad: utils.Ptr(88.5),
		}},
	})

	require.Equal(t, health.Summary{TotalActivities: 1, TotalExercises: 1, DataFreshness: "real-time"}, snapshot.Summary)

	body, err := json.Marshal(snapshot.Activities)
	require.NoError(t, err)
	require.JSONEq(t, `[{"date": "2025-02-28", "calories": 650, "steps": 9000, "distance": 7100.5, "duration": "PT3H"}]`, string(body))

	body, err = json.Marshal(snapshot.Exercises)
	require.NoError(t, err)
	require.JSONEq(t, `[{
		"id": "ex-1",
		"startTime": "2025-02-27T08:00:00.000",
		"sport": "CYCLING",
		"duration": "PT1H",
		"calories": 700,
		"heartRate": {"average": 140, "maximum": 172},
		"trainingLoad": 88.5
	}]`, string(body))
}

func TestBuildSnapshot_MissingFieldsAreNull(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{
		exercises: []oauthmodel.Exercise{{StartTime: "2025-02-27T08:00:00", Sport: "OTHER"}},
	})

	body, err := json.Marshal(snapshot.Exercises[0])
	require.NoError(t, err)
	require.JSONEq(t, `{
		"startTime": "2025-02-27T08:00:00",
		"sport": "OTHER",
		"duration": null,
		"calories": null,
		"heartRate": {"average": null, "maximum": null},
		"trainingLoad": null
	}`, string(body))
}

func TestBuildSnapshot_RecentWorkout(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{
		exercises: []oauthmodel.Exercise{exerciseAt(testNow.Add(-time.Hour), "RUNNING", 500)},
	})

	require.Len(t, snapshot.Insights, 1)
	insight := snapshot.Insights[0]
	require.Equal(t, health.InsightRecentWorkout, insight.Type)
	require.Equal(t, "Great RUNNING workout 1 hours ago! You burned 500 calories.", insight.Message)
	require.Equal(t, snapshot.Exercises[0], insight.Data)
}

func TestBuildSnapshot_OldWorkout(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{
		exercises: []oauthmodel.Exercise{exerciseAt(testNow.Add(-5*time.Hour), "RUNNING", 500)},
	})
	require.Empty(t, snapshot.Insights)
}

func TestBuildSnapshot_FutureWorkout(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{
		exercises: []oauthmodel.Exercise{exerciseAt(testNow.Add(2*time.Hour), "RUNNING", 300)},
	})
	require.Empty(t, snapshot.Insights)

	// A workout starting exactly now still counts
	snapshot = buildSnapshot(t, &fakeFetcher{
		exercises: []oauthmodel.Exercise{exerciseAt(testNow, "RUNNING", 300)},
	})
	require.Len(t, snapshot.Insights, 1)
	require.Equal(t, "Great RUNNING workout 0 hours ago! You burned 300 calories.", snapshot.Insights[0].Message)
}

func TestBuildSnapshot_StepGoalBoundary(t *testing.T) {
	over := buildSnapshot(t, &fakeFetcher{activities: []oauthmodel.ActivityLog{activityWithSteps("2025-03-01", 10001)}})
	require.Equal(t, []health.InsightType{health.InsightStepGoal}, insightTypes(over.Insights))
	require.Equal(t, "Awesome! You've hit 10001 steps today! 🎯", over.Insights[0].Message)

	exact := buildSnapshot(t, &fakeFetcher{activities: []oauthmodel.ActivityLog{activityWithSteps("2025-03-01", 10000)}})
	require.Empty(t, exact.Insights)

	missing := buildSnapshot(t, &fakeFetcher{activities: []oauthmodel.ActivityLog{{Date: "2025-03-01"}}})
	require.Empty(t, missing.Insights)
}

func TestBuildSnapshot_LatestIsByTimestamp(t *testing.T) {
	// The most recent records are listed first; position alone would pick the older ones
	snapshot := buildSnapshot(t, &fakeFetcher{
		activities: []oauthmodel.ActivityLog{
			activityWithSteps("2025-03-01", 12000),
			activityWithSteps("2025-02-27", 3000),
		},
		exercises: []oauthmodel.Exercise{
			exerciseAt(testNow.Add(-2*time.Hour), "SWIMMING", 300),
			exerciseAt(testNow.Add(-48*time.Hour), "RUNNING", 500),
		},
	})

	require.Equal(t, []health.InsightType{health.InsightRecentWorkout, health.InsightStepGoal}, insightTypes(snapshot.Insights))
	require.Equal(t, "Great SWIMMING workout 2 hours ago! You burned 300 calories.", snapshot.Insights[0].Message)
	require.Equal(t, "Awesome! You've hit 12000 steps today! 🎯", snapshot.Insights[1].Message)
}

func TestBuildSnapshot_UnparseableTimestampsFallBackToLast(t *testing.T) {
	snapshot := buildSnapshot(t, &fakeFetcher{
		activities: []oauthmodel.ActivityLog{
			activityWithSteps("yesterday", 3000),
			activityWithSteps("today", 15000),
		},
	})
	require.Equal(t, []health.InsightType{health.InsightStepGoal}, insightTypes(snapshot.Insights))
}

func TestBuildSnapshot_WorkoutWithoutCalories(t *testing.T) {
	exercise := exerciseAt(testNow.Add(-90*time.Minute), "YOGA", 0)
	exercise.Calories = nil
	snapshot := buildSnapshot(t, &fakeFetcher{exercises: []oauthmodel.Exercise{exercise}})

	require.Len(t, snapshot.Insights, 1)
	require.Equal(t, "Great YOGA workout 2 hours ago!", snapshot.Insights[0].Message)
}

func TestBuildSnapshot_PropagatesFetchErrors(t *testing.T) {
	service, err := health.NewSnapshotService(&fakeFetcher{activityErr: apperrors.ErrNoCredential})
	require.NoError(t, err)
	_, err = service.BuildSnapshot(context.Background(), testUserID)
	require.ErrorIs(t, err, apperrors.ErrNoCredential)

	listErr := apperrors.NewStatusError(apperrors.ErrTransactionListFailed, 503, "")
	service, err = health.NewSnapshotService(&fakeFetcher{exerciseErr: listErr})
	require.NoError(t, err)
	_, err = service.BuildSnapshot(context.Background(), testUserID)
	require.ErrorIs(t, err, apperrors.ErrTransactionListFailed)

	var statusErr *apperrors.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, 503, statusErr.StatusCode)
}
