package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pos-backend/internal/domain/cashier"
)

const (
	createCashierSQL = `INSERT INTO cashiers (id, email, password_hash, name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getCashierByIDSQL = `SELECT id, email, password_hash, name, role, active, created_at, updated_at
		FROM cashiers WHERE id = $1`

	getCashierByEmailSQL = `SELECT id, email, password_hash, name, role, active, created_at, updated_at
		FROM cashiers WHERE email = $1 AND active = TRUE LIMIT 1`
)

var _ cashier.Repository = (*CashierRepository)(nil)

// CashierRepository implements cashier.Repository backed by PostgreSQL.
type CashierRepository struct {
	pool *pgxpool.Pool
}

// NewCashierRepository returns a CashierRepository that uses the given pool.
func NewCashierRepository(pool *pgxpool.Pool) *CashierRepository {
	return &CashierRepository{pool: pool}
}

func (r *CashierRepository) Create(ctx context.Context, c *cashier.Cashier) error {
	_, err := r.pool.Exec(ctx, createCashierSQL,
		c.ID, c.Email, c.PasswordHash, c.Name, string(c.Role), c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating cashier %q: %w", c.ID, err)
	}
	return nil
}

func (r *CashierRepository) GetByID(ctx context.Context, id string) (*cashier.Cashier, error) {
	return scanCashier(r.pool.QueryRow(ctx, getCashierByIDSQL, id))
}

// GetByEmail only matches active cashiers; soft-deleted accounts are
// invisible here.
func (r *CashierRepository) GetByEmail(ctx context.Context, email string) (*cashier.Cashier, error) {
	return scanCashier(r.pool.QueryRow(ctx, getCashierByEmailSQL, email))
}

func scanCashier(row pgx.Row) (*cashier.Cashier, error) {
	var (
		c    cashier.Cashier
		role string
	)
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Name, &role, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cashier.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cashier: %w", err)
	}
	c.Role = cashier.Role(role)
	return &c, nil
}
