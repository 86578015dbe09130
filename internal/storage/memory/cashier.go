package memory

import (
	"context"
	"sync"

	"github.com/xenking/pos-backend/internal/domain/cashier"
)

var _ cashier.Repository = (*CashierStore)(nil)

// CashierStore keeps cashier accounts in a map keyed by ID.
type CashierStore struct {
	mu       sync.RWMutex
	cashiers map[string]cashier.Cashier
}

// NewCashierStore creates an empty CashierStore.
func NewCashierStore() *CashierStore {
	return &CashierStore{cashiers: make(map[string]cashier.Cashier)}
}

func (s *CashierStore) Create(_ context.Context, c *cashier.Cashier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cashiers[c.ID] = *c
	return nil
}

func (s *CashierStore) GetByID(_ context.Context, id string) (*cashier.Cashier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cashiers[id]
	if !ok {
		return nil, cashier.ErrNotFound
	}
	return &c, nil
}

// GetByEmail returns the active cashier with the given email. Soft-deleted
// accounts are invisible here.
func (s *CashierStore) GetByEmail(_ context.Context, email string) (*cashier.Cashier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cashiers {
		if c.Email == email && c.Active {
			return &c, nil
		}
	}
	return nil, cashier.ErrNotFound
}
