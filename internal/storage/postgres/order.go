package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pos-backend/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, code, buy_list, wish_list, total, status, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getOrderByIDSQL = `SELECT id, code, buy_list, wish_list, total, status, client_id, created_at, updated_at
		FROM orders WHERE id = $1`

	getOrderByCodeSQL = `SELECT id, code, buy_list, wish_list, total, status, client_id, created_at, updated_at
		FROM orders WHERE code = $1 LIMIT 1`

	listOrdersSQL = `SELECT id, code, buy_list, wish_list, total, status, client_id, created_at, updated_at
		FROM orders ORDER BY created_at`

	updateOrderSQL = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line-item
// snapshots are serialized to JSONB columns.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	buyJSON, err := json.Marshal(o.BuyList)
	if err != nil {
		return fmt.Errorf("marshaling buy list: %w", err)
	}
	wishJSON, err := json.Marshal(o.WishList)
	if err != nil {
		return fmt.Errorf("marshaling wish list: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.Code, buyJSON, wishJSON, o.Total, string(o.Status), o.ClientID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, getOrderByIDSQL, id))
}

func (r *OrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, getOrderByCodeSQL, code))
}

func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL, o.ID, string(o.Status), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o        order.Order
		status   string
		buyJSON  []byte
		wishJSON []byte
	)
	err := row.Scan(&o.ID, &o.Code, &buyJSON, &wishJSON, &o.Total, &status, &o.ClientID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("scanning order: %w", err)
	}

	o.Status = order.Status(status)
	if err := json.Unmarshal(buyJSON, &o.BuyList); err != nil {
		return nil, fmt.Errorf("unmarshaling buy list: %w", err)
	}
	if err := json.Unmarshal(wishJSON, &o.WishList); err != nil {
		return nil, fmt.Errorf("unmarshaling wish list: %w", err)
	}
	return &o, nil
}
