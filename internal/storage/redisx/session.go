// Package redisx provides a redis-backed session store with real TTL-based
// expiry, for deployments where tokens must not live forever.
package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/pos-backend/internal/domain/auth"
)

const sessionKeyPrefix = "pos:session:"

// NewClient creates a redis client. A bare host gets the default port
// appended.
func NewClient(addr, username, password string) *redis.Client {
	if !strings.Contains(addr, ":") {
		addr += ":6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
}

var _ auth.SessionStore = (*SessionStore)(nil)

// SessionStore holds sessions as JSON values under pos:session:<token> keys.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. A zero ttl stores keys without
// expiry, matching the in-memory default.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, token string, session auth.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*auth.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("fetching session: %w", err)
	}

	var session auth.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &session, nil
}
