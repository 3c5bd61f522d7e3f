package sessions

import "time"

// Session binds an authorization state nonce to the user who started the flow.
// It is created when the partner redirect is issued and consumed by the callback.
type Session struct {
	State     string    // Opaque state value sent to the partner
	UserID    string    // User that started the authorization
	CreatedAt time.Time // When the redirect was issued
}

// Repo stores authorization sessions keyed by state.
type Repo interface {
	// Upsert creates or replaces the session for state
	Upsert(state string, session *Session) error

	// Get returns the session for state, or an error if it is unknown or expired
	Get(state string) (*Session, error)

	// Delete removes the session, failing if it was already gone
	Delete(state string) error

	// DeleteExpired removes every session created before cutoff and returns how many went
	DeleteExpired(cutoff time.Time) (int, error)

	// Count returns the number of stored sessions
	Count() int
}
