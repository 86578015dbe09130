// Package auth implements cashier registration, credential verification, and
// opaque session tokens.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/cashier"
)

// Profile is the public view of a cashier account. It never carries the
// password hash.
type Profile struct {
	ID    string
	Email string
	Name  string
	Role  cashier.Role
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string
	User  Profile
}

// Service implements account registration and login over an injected cashier
// repository and session store.
type Service struct {
	cashiers cashier.Repository
	sessions SessionStore
}

// NewService creates an auth Service.
func NewService(cashiers cashier.Repository, sessions SessionStore) *Service {
	return &Service{
		cashiers: cashiers,
		sessions: sessions,
	}
}

// Register creates a cashier account with the default cashier role. It fails
// when the email is already held by an active cashier.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Profile, error) {
	_, err := s.cashiers.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Validation("Email already registered")
	case !errors.Is(err, cashier.ErrNotFound):
		return nil, errors.Wrap(err, "lookup cashier")
	}

	now := time.Now()
	c := &cashier.Cashier{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: HashPassword(password),
		Name:         name,
		Role:         cashier.RoleCashier,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.cashiers.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create cashier")
	}

	return &Profile{ID: c.ID, Email: c.Email, Name: c.Name, Role: c.Role}, nil
}

// Login verifies credentials against active cashiers and issues an opaque
// session token. Unknown emails and wrong passwords both fail with the same
// unauthorized error so callers cannot enumerate registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	c, err := s.cashiers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, cashier.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, errors.Wrap(err, "lookup cashier")
	}

	digest := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(c.PasswordHash)) != 1 {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := generateToken()
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}

	session := Session{CashierID: c.ID, Email: c.Email, Role: c.Role}
	if err := s.sessions.Put(ctx, token, session); err != nil {
		return nil, errors.Wrap(err, "store session")
	}

	return &LoginResult{
		Token: token,
		User:  Profile{ID: c.ID, Email: c.Email, Name: c.Name, Role: c.Role},
	}, nil
}

// Authenticate resolves a bearer token to its session.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperr.Unauthorized("Invalid token")
		}
		return nil, errors.Wrap(err, "lookup session")
	}
	return session, nil
}

// HashPassword returns the deterministic one-way digest used for stored
// credentials: hex-encoded SHA-256 of the password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// generateToken returns 32 random bytes, hex encoded.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
