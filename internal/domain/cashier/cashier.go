// Package cashier defines the cashier account entity and its persistence
// contract.
package cashier

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by repositories when no matching cashier exists.
var ErrNotFound = errors.New("cashier not found")

// Role gates access to protected endpoints.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
)

// Cashier is a staff account. Active is a soft-delete marker: inactive
// cashiers are invisible to email lookups and cannot log in.
type Cashier struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines persistence operations for cashier accounts.
// GetByEmail only considers active cashiers.
type Repository interface {
	Create(ctx context.Context, c *Cashier) error
	GetByID(ctx context.Context, id string) (*Cashier, error)
	GetByEmail(ctx context.Context, email string) (*Cashier, error)
}
