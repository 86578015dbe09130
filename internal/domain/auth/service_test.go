package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/cashier"
)

// --- Mock implementations ---

type mockCashierRepo struct {
	byEmail map[string]*cashier.Cashier
}

func newCashierRepo(cashiers ...cashier.Cashier) *mockCashierRepo {
	byEmail := make(map[string]*cashier.Cashier, len(cashiers))
	for i := range cashiers {
		byEmail[cashiers[i].Email] = &cashiers[i]
	}
	return &mockCashierRepo{byEmail: byEmail}
}

func (m *mockCashierRepo) Create(_ context.Context, c *cashier.Cashier) error {
	m.byEmail[c.Email] = c
	return nil
}

func (m *mockCashierRepo) GetByID(_ context.Context, id string) (*cashier.Cashier, error) {
	for _, c := range m.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, cashier.ErrNotFound
}

func (m *mockCashierRepo) GetByEmail(_ context.Context, email string) (*cashier.Cashier, error) {
	c, ok := m.byEmail[email]
	if !ok || !c.Active {
		return nil, cashier.ErrNotFound
	}
	return c, nil
}

type mockSessionStore struct {
	sessions map[string]Session
}

func newSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]Session)}
}

func (m *mockSessionStore) Put(_ context.Context, token string, s Session) error {
	m.sessions[token] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (*Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// --- Tests ---

func TestRegister(t *testing.T) {
	repo := newCashierRepo()
	svc := NewService(repo, newSessionStore())

	profile, err := svc.Register(context.Background(), "new@example.com", "password123", "New Cashier")

	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "new@example.com", profile.Email)
	assert.Equal(t, "New Cashier", profile.Name)
	assert.Equal(t, cashier.RoleCashier, profile.Role)

	stored, err := repo.GetByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Active)
	assert.Equal(t, HashPassword("password123"), stored.PasswordHash)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newCashierRepo(cashier.Cashier{
		ID:     "c1",
		Email:  "taken@example.com",
		Active: true,
	})
	svc := NewService(repo, newSessionStore())

	_, err := svc.Register(context.Background(), "taken@example.com", "password123", "Dup")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "Email already registered", err.Error())
}

func TestRegister_InactiveEmailReusable(t *testing.T) {
	// Soft-deleted accounts free up their email for re-registration.
	repo := newCashierRepo(cashier.Cashier{
		ID:     "c1",
		Email:  "gone@example.com",
		Active: false,
	})
	svc := NewService(repo, newSessionStore())

	_, err := svc.Register(context.Background(), "gone@example.com", "password123", "Back")
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	repo := newCashierRepo(cashier.Cashier{
		ID:           "c1",
		Email:        "cashier@example.com",
		PasswordHash: HashPassword("password123"),
		Name:         "John Cashier",
		Role:         cashier.RoleCashier,
		Active:       true,
	})
	sessions := newSessionStore()
	svc := NewService(repo, sessions)

	result, err := svc.Login(context.Background(), "cashier@example.com", "password123")

	require.NoError(t, err)
	assert.Len(t, result.Token, 64)
	assert.Equal(t, "c1", result.User.ID)
	assert.Equal(t, cashier.RoleCashier, result.User.Role)

	session, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "c1", session.CashierID)
	assert.Equal(t, "cashier@example.com", session.Email)
	assert.Equal(t, cashier.RoleCashier, session.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newCashierRepo(cashier.Cashier{
		ID:           "c1",
		Email:        "cashier@example.com",
		PasswordHash: HashPassword("password123"),
		Active:       true,
	})
	svc := NewService(repo, newSessionStore())

	_, err := svc.Login(context.Background(), "cashier@example.com", "wrongpass")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewService(newCashierRepo(), newSessionStore())

	_, err := svc.Login(context.Background(), "nobody@example.com", "password123")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	// Same message as a wrong password so emails cannot be enumerated.
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestLogin_InactiveCashier(t *testing.T) {
	repo := newCashierRepo(cashier.Cashier{
		ID:           "c1",
		Email:        "gone@example.com",
		PasswordHash: HashPassword("password123"),
		Active:       false,
	})
	svc := NewService(repo, newSessionStore())

	_, err := svc.Login(context.Background(), "gone@example.com", "password123")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc := NewService(newCashierRepo(), newSessionStore())

	_, err := svc.Authenticate(context.Background(), "bogus-token")

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid token", err.Error())
}

func TestHashPassword_Deterministic(t *testing.T) {
	assert.Equal(t, HashPassword("password123"), HashPassword("password123"))
	assert.NotEqual(t, HashPassword("password123"), HashPassword("password124"))
	assert.Len(t, HashPassword("password123"), 64)
}
