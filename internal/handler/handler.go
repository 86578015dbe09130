// Package handler exposes the REST API: catalog CRUD, order workflow, and
// cashier auth, all wrapped in a uniform response envelope.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/pos-backend/internal/domain/auth"
	"github.com/xenking/pos-backend/internal/domain/cashier"
	"github.com/xenking/pos-backend/internal/domain/order"
	"github.com/xenking/pos-backend/internal/domain/product"
)

// Handler holds the domain services the API delegates to.
type Handler struct {
	products *product.Service
	orders   *order.Service
	auth     *auth.Service
}

// New constructs a Handler.
func New(products *product.Service, orders *order.Service, authSvc *auth.Service) *Handler {
	return &Handler{
		products: products,
		orders:   orders,
		auth:     authSvc,
	}
}

// Routes builds the /api route tree. Catalog and order creation are public;
// order reads and status updates require a cashier or admin session, and
// order deletion is admin-only.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.Get("/sku/{sku}", h.getProductBySKU)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/code/{code}", h.getOrderByCode)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate, requireRole(cashier.RoleCashier, cashier.RoleAdmin))
				r.Get("/", h.listOrders)
				r.Get("/{id}", h.getOrder)
				r.Patch("/{id}/status", h.updateOrderStatus)
			})

			r.With(h.authenticate, requireRole(cashier.RoleAdmin)).
				Delete("/{id}", h.deleteOrder)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})
	})

	return r
}
