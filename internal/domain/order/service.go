package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/product"
)

// ItemRequest is a single requested line: the product's SKU, how many, and an
// optional color variant.
type ItemRequest struct {
	SKU      string
	Quantity int
	Color    string
}

// CreateRequest holds the input for creating an order. The buy list is
// mandatory; the wish list is optional and never contributes to the total.
type CreateRequest struct {
	BuyList  []ItemRequest
	WishList []ItemRequest
	ClientID string
}

// Service orchestrates order creation and lifecycle transitions.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// Create validates and prices both item lists against live stock, then
// persists a pending order. The wish list passes through the same validation
// as the buy list but is excluded from the total, and stock is never
// decremented here — inventory changes only via catalog updates.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	buyList, err := s.priceItems(ctx, req.BuyList)
	if err != nil {
		return nil, err
	}

	wishList := []LineItem{}
	if len(req.WishList) > 0 {
		wishList, err = s.priceItems(ctx, req.WishList)
		if err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for _, item := range buyList {
		total = total.Add(item.Subtotal)
	}

	now := time.Now()
	o := &Order{
		ID:        uuid.NewString(),
		Code:      GenerateCode(),
		BuyList:   buyList,
		WishList:  wishList,
		Total:     total,
		Status:    StatusPending,
		ClientID:  req.ClientID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// priceItems resolves each requested item sequentially, failing fast on the
// first invalid entry. No partial result is ever returned.
func (s *Service) priceItems(ctx context.Context, items []ItemRequest) ([]LineItem, error) {
	prepared := make([]LineItem, 0, len(items))
	for _, item := range items {
		p, err := s.products.GetBySKU(ctx, item.SKU)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, apperr.NotFound("Product with SKU %s not found", item.SKU)
			}
			return nil, errors.Wrapf(err, "get product %s", item.SKU)
		}

		if item.Quantity > p.Stock {
			return nil, apperr.Validation("Insufficient stock for %s", p.Name)
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		prepared = append(prepared, LineItem{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Subtotal:  p.Price.Mul(qty),
		})
	}
	return prepared, nil
}

// GetByID returns the order with the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Order with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "get order %s", id)
	}
	return o, nil
}

// GetByCode returns the order with the given human-shareable code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Order, error) {
	o, err := s.orders.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Order with code %s not found", code)
		}
		return nil, errors.Wrapf(err, "get order by code %s", code)
	}
	return o, nil
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// UpdateStatus overwrites the order status and bumps UpdatedAt. It has no
// side effects on stock or pricing.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Status = status
	o.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrapf(err, "update order %s", id)
	}
	return o, nil
}

// Delete removes the order permanently. There is no soft delete or audit
// trail of deleted orders.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "delete order %s", id)
	}
	return nil
}
