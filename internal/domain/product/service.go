package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-backend/internal/apperr"
)

// CreateParams holds the input for creating a catalog product.
type CreateParams struct {
	SKU         string
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
	Stock       int
	Colors      []string
}

// UpdateParams holds a partial update. Nil fields retain their prior values.
type UpdateParams struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	ImageURL    *string
	Stock       *int
	Colors      *[]string
}

// Service implements catalog operations over an injected repository.
type Service struct {
	products Repository
}

// NewService creates a catalog Service.
func NewService(products Repository) *Service {
	return &Service{products: products}
}

// Create stores a new product with a generated ID and fresh timestamps.
// Duplicate SKUs are not rejected here; callers relying on SKU uniqueness
// must check with GetBySKU first.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	now := time.Now()
	p := &Product{
		ID:          uuid.NewString(),
		SKU:         params.SKU,
		Name:        params.Name,
		Price:       params.Price,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		Stock:       params.Stock,
		Colors:      params.Colors,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return p, nil
}

// GetByID returns the product with the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Product with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "get product %s", id)
	}
	return p, nil
}

// GetBySKU returns the first product matching the given SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Product with SKU %s not found", sku)
		}
		return nil, errors.Wrapf(err, "get product by sku %s", sku)
	}
	return p, nil
}

// List returns all catalog products.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

// Update applies a shallow merge: only non-nil fields of params overwrite the
// stored product. UpdatedAt is refreshed on every call.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.ImageURL != nil {
		p.ImageURL = *params.ImageURL
	}
	if params.Stock != nil {
		p.Stock = *params.Stock
	}
	if params.Colors != nil {
		p.Colors = *params.Colors
	}
	p.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, errors.Wrapf(err, "update product %s", id)
	}
	return p, nil
}

// Delete removes the product permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	return nil
}
