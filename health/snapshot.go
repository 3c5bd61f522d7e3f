// Package health builds the combined activity and exercise snapshot returned to clients.
package health

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const dataFreshnessRealTime = "real-time"

// Fetcher supplies the two partner collections for a user.
type Fetcher interface {
	FetchActivityLogs(ctx context.Context, userID string) ([]oauthmodel.ActivityLog, error)
	FetchExercises(ctx context.Context, userID string) ([]oauthmodel.Exercise, error)
}

type Summary struct {
	TotalActivities int    `json:"totalActivities"`
	TotalExercises  int    `json:"totalExercises"`
	DataFreshness   string `json:"dataFreshness"`
}

// Snapshot is built fresh for every request and never stored.
type Snapshot struct {
	UserID     string           `json:"userId"`
	Timestamp  time.Time        `json:"timestamp"`
	Summary    Summary          `json:"summary"`
	Activities []ActivityRecord `json:"activities"`
	Exercises  []ExerciseRecord `json:"exercises"`
	Insights   []Insight        `json:"insights"`
}

type SnapshotService struct {
	fetcher Fetcher
	nowTime func() time.Time
}

type SnapshotServiceOption func(*SnapshotService)

func WithNowTime(nowTime func() time.Time) SnapshotServiceOption {
	return func(s *SnapshotService) {
		s.nowTime = nowTime
	}
}

func NewSnapshotService(fetcher Fetcher, options ...SnapshotServiceOption) (*SnapshotService, error) {
	if fetcher == nil {
		return nil, errors.New("[SnapshotService NewSnapshotService] fetcher is required")
	}

	s := &SnapshotService{
		fetcher: fetcher,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// BuildSnapshot fetches both collections concurrently and combines them. A failure of either
// fetch fails the snapshot; an empty collection does not.
func (s *SnapshotService) BuildSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	var (
		activities []oauthmodel.ActivityLog
		exercises  []oauthmodel.Exercise
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		activities, err = s.fetcher.FetchActivityLogs(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		exercises, err = s.fetcher.FetchExercises(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrapf(err, "[SnapshotService BuildSnapshot]")
	}

	now := s.nowTime().UTC()
	snapshot := &Snapshot{
		UserID:    userID,
		Timestamp: now,
		Summary: Summary{
			TotalActivities: len(activities),
			TotalExercises:  len(exercises),
			DataFreshness:   dataFreshnessRealTime,
		},
		Activities: make([]ActivityRecord, 0, len(activities)),
		Exercises:  make([]ExerciseRecord, 0, len(exercises)),
	}
	for _, a := range activities {
		snapshot.Activities = append(snapshot.Activities, NormalizeActivity(a))
	}
	for _, e := range exercises {
		snapshot.Exercises = append(snapshot.Exercises, NormalizeExercise(e))
	}
	snapshot.Insights = DeriveInsights(snapshot.Activities, snapshot.Exercises, now)

	log.Ctx(ctx).Info().
		Str("user", userID).
		Int("activities", len(snapshot.Activities)).
		Int("exercises", len(snapshot.Exercises)).
		Int("insights", len(snapshot.Insights)).
		Msg("snapshot built")
	return snapshot, nil
}
