package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/internal/metrics"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory session store with a fixed max age
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxAge   time.Duration
	nowTime  func() time.Time
}

type InMemoryRepoOption func(*InMemoryRepo)

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryRepoOption {
	return func(r *InMemoryRepo) {
		r.nowTime = nowFunc
	}
}

// NewInMemoryRepo creates a session store. Sessions older than maxAge are treated as absent;
// a maxAge of zero disables expiry.
func NewInMemoryRepo(maxAge time.Duration, options ...InMemoryRepoOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]*Session),
		maxAge:   maxAge,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *InMemoryRepo) Upsert(state string, session *Session) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if session == nil {
		return errors.New("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[state] = &Session{
		State:     state,
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt,
	}
	metrics.SetActiveSessions(len(r.sessions))
	return nil
}

func (r *InMemoryRepo) Get(state string) (*Session, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[state]
	if !ok {
		return nil, fmt.Errorf("session %w", apperrors.ErrNotFound)
	}
	if r.expired(session) {
		return nil, apperrors.ErrSessionExpired
	}

	copied := *session
	return &copied, nil
}

func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[state]; !ok {
		return fmt.Errorf("session %w", apperrors.ErrNotFound)
	}
	delete(r.sessions, state)
	metrics.SetActiveSessions(len(r.sessions))
	return nil
}

func (r *InMemoryRepo) DeleteExpired(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for state, session := range r.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(r.sessions, state)
			removed++
		}
	}
	metrics.SetActiveSessions(len(r.sessions))
	return removed, nil
}

func (r *InMemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep deletes expired sessions every interval until ctx is done.
func (r *InMemoryRepo) Sweep(ctx context.Context, interval time.Duration) {
	if r.maxAge <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.DeleteExpired(r.nowTime().Add(-r.maxAge))
		}
	}
}

func (r *InMemoryRepo) expired(session *Session) bool {
	return r.maxAge > 0 && r.nowTime().Sub(session.CreatedAt) > r.maxAge
}
