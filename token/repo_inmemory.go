package token

import (
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/internal/metrics"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	credentials map[string]*Credential // user ID to credential
	lock        sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		credentials: make(map[string]*Credential),
	}
}

func (tr *InMemoryRepo) Upsert(credential *Credential) error {
	if credential == nil {
		return errors.New("credential cannot be nil")
	}
	if credential.UserID == "" {
		return errors.New("credential user ID is required")
	}

	tr.lock.Lock()
	defer tr.lock.Unlock()

	copied := *credential
	tr.credentials[credential.UserID] = &copied
	metrics.SetStoredCredentials(len(tr.credentials))
	return nil
}

// Get wraps ErrNoCredential when the user has never completed authorization.
func (tr *InMemoryRepo) Get(userID string) (*Credential, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	credential, ok := tr.credentials[userID]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", userID, apperrors.ErrNoCredential)
	}
	copied := *credential
	return &copied, nil
}

func (tr *InMemoryRepo) Delete(userID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.credentials[userID]; !ok {
		return fmt.Errorf("credential %w", apperrors.ErrNotFound)
	}
	delete(tr.credentials, userID)
	metrics.SetStoredCredentials(len(tr.credentials))
	return nil
}

func (tr *InMemoryRepo) Count() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return len(tr.credentials)
}
