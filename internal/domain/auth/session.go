package auth

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/pos-backend/internal/domain/cashier"
)

// ErrSessionNotFound is returned by session stores for unknown or expired
// tokens.
var ErrSessionNotFound = errors.New("session not found")

// Session binds an opaque token to a cashier's identity for the duration of
// the session store's TTL (which may be zero, meaning forever).
type Session struct {
	CashierID string       `json:"cashierId"`
	Email     string       `json:"email"`
	Role      cashier.Role `json:"role"`
}

// SessionStore holds issued tokens. Implementations decide expiry: the
// in-memory store defaults to no expiry, the redis store applies a TTL.
type SessionStore interface {
	Put(ctx context.Context, token string, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
}

type sessionKey struct{}

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext extracts the authenticated session, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
