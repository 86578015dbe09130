package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/product"
)

type createProductRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Stock       int      `json:"stock"`
	Colors      []string `json:"colors"`
}

func (req *createProductRequest) validate() error {
	var problems []string
	if req.SKU == "" {
		problems = append(problems, "sku is required")
	}
	if req.Name == "" {
		problems = append(problems, "name is required")
	}
	if req.Price <= 0 {
		problems = append(problems, "price must be positive")
	}
	if req.Stock < 0 {
		problems = append(problems, "stock cannot be negative")
	}
	if len(problems) > 0 {
		return apperr.ValidationDetails("Validation error", problems)
	}
	return nil
}

type updateProductRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	Stock       *int      `json:"stock"`
	Colors      *[]string `json:"colors"`
}

func (req *updateProductRequest) validate() error {
	var problems []string
	if req.Price != nil && *req.Price <= 0 {
		problems = append(problems, "price must be positive")
	}
	if req.Stock != nil && *req.Stock < 0 {
		problems = append(problems, "stock cannot be negative")
	}
	if len(problems) > 0 {
		return apperr.ValidationDetails("Validation error", problems)
	}
	return nil
}

type productResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Stock       int       `json:"stock"`
	Colors      []string  `json:"colors,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Colors:      p.Colors,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := h.products.Create(r.Context(), product.CreateParams{
		SKU:         req.SKU,
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Colors:      req.Colors,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) getProductBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(&products[i])
	}
	respondData(w, http.StatusOK, resp)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	params := product.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Colors:      req.Colors,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		params.Price = &price
	}

	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted")
}
