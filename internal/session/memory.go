package session

import (
	"context"
	"sync"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

// MemoryCredentialStore keeps credentials for the lifetime of the
// process. Used when no Redis profile store is configured, and in
// tests.
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	session domain.Session
	stored  bool
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (m *MemoryCredentialStore) Save(_ context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
	m.stored = true
	return nil
}

func (m *MemoryCredentialStore) Load(_ context.Context) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.stored {
		return domain.Session{}, ErrNoCredentials
	}
	return m.session, nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = domain.Session{}
	m.stored = false
	return nil
}
