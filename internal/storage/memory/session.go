package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xenking/pos-backend/internal/domain/auth"
)

var _ auth.SessionStore = (*SessionStore)(nil)

type sessionEntry struct {
	session   auth.Session
	expiresAt time.Time // zero means never
}

// SessionStore keeps issued tokens in a map. With a zero TTL, tokens are
// valid for the lifetime of the process.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]sessionEntry
}

// NewSessionStore creates a SessionStore. A zero ttl disables expiry.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionStore) Put(_ context.Context, token string, session auth.Session) error {
	entry := sessionEntry{session: session}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = entry
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*auth.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, auth.ErrSessionNotFound
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, auth.ErrSessionNotFound
	}

	session := entry.session
	return &session, nil
}
