package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

type memoryEntry struct {
	session   *core.Session
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the SessionStore
// interface, suitable for tests and single-instance deployments.
type MemoryStore struct {
	sessions map[string]memoryEntry
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() ports.SessionStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
	}
}

// Save stores the session descriptor with the given TTL.
func (s *MemoryStore) Save(ctx context.Context, session *core.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	s.sessions[session.ID] = memoryEntry{session: session, expiresAt: expiresAt}

	// Drop the entry once the TTL elapses, unless it was overwritten.
	go func() {
		time.Sleep(ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		if entry, exists := s.sessions[session.ID]; exists && !entry.expiresAt.After(expiresAt) {
			delete(s.sessions, session.ID)
		}
	}()

	return nil
}

// Get retrieves a session descriptor by id.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.sessions[sessionID]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, core.ErrSessionNotFound
	}

	return entry.session, nil
}
