package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pos-backend/internal/domain/auth"
	"github.com/xenking/pos-backend/internal/domain/cashier"
	"github.com/xenking/pos-backend/internal/domain/order"
	"github.com/xenking/pos-backend/internal/domain/product"
	"github.com/xenking/pos-backend/internal/storage/memory"
)

// --- Helpers ---

type testEnv struct {
	router   http.Handler
	cashiers *memory.CashierStore
}

func newTestEnv() *testEnv {
	products := memory.NewProductStore()
	orders := memory.NewOrderStore()
	cashiers := memory.NewCashierStore()
	sessions := memory.NewSessionStore(0)

	h := New(
		product.NewService(products),
		order.NewService(products, orders),
		auth.NewService(cashiers, sessions),
	)
	return &testEnv{router: h.Routes(), cashiers: cashiers}
}

type envelopeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, envelopeResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp envelopeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func (e *testEnv) createProduct(t *testing.T, sku, name string, price float64, stock int) string {
	t.Helper()

	status, resp := e.do(t, http.MethodPost, "/api/products", map[string]any{
		"sku":   sku,
		"name":  name,
		"price": price,
		"stock": stock,
	}, "")
	require.Equal(t, http.StatusCreated, status)

	var p struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	return p.ID
}

// seedAdmin inserts an admin account directly and logs it in.
func (e *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()

	now := time.Now()
	require.NoError(t, e.cashiers.Create(context.Background(), &cashier.Cashier{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: auth.HashPassword("admin123"),
		Name:         "Admin User",
		Role:         cashier.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	return e.login(t, "admin@example.com", "admin123")
}

func (e *testEnv) registerCashier(t *testing.T, email string) string {
	t.Helper()

	status, _ := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    email,
		"password": "password123",
		"name":     "Test Cashier",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	return e.login(t, email, "password123")
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	status, resp := e.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status)

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

// --- Product tests ---

func TestProductCRUD(t *testing.T) {
	env := newTestEnv()

	id := env.createProduct(t, "SKU001", "T-Shirt Classic", 29.99, 100)

	status, resp := env.do(t, http.MethodGet, "/api/products/"+id, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)

	var p struct {
		SKU   string  `json:"sku"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Stock int     `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, "SKU001", p.SKU)
	assert.InDelta(t, 29.99, p.Price, 0.001)

	status, resp = env.do(t, http.MethodGet, "/api/products/sku/SKU001", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)

	status, resp = env.do(t, http.MethodPut, "/api/products/"+id, map[string]any{
		"stock": 80,
	}, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, 80, p.Stock)

	// Untouched fields survive a partial update.
	assert.Equal(t, "T-Shirt Classic", p.Name)
	assert.InDelta(t, 29.99, p.Price, 0.001)

	status, resp = env.do(t, http.MethodDelete, "/api/products/"+id, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product deleted", resp.Message)

	status, resp = env.do(t, http.MethodGet, "/api/products/"+id, nil, "")
	require.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Product with ID "+id+" not found", resp.Error.Message)
}

func TestListProducts(t *testing.T) {
	env := newTestEnv()
	env.createProduct(t, "SKU001", "T-Shirt Classic", 29.99, 100)
	env.createProduct(t, "SKU002", "Jeans Premium", 79.99, 50)

	status, resp := env.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, status)

	var products []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	assert.Len(t, products, 2)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":  "",
		"price": -1,
	}, "")

	require.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Validation error", resp.Error.Message)
	assert.NotEmpty(t, resp.Error.Details)
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp envelopeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid request body", resp.Error.Message)
}

// --- Order tests ---

func TestCreateOrder(t *testing.T) {
	env := newTestEnv()
	env.createProduct(t, "SKU001", "T-Shirt Classic", 29.99, 100)
	env.createProduct(t, "SKU004", "Jacket Winter", 149.99, 30)

	status, resp := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"buyList": []map[string]any{
			{"sku": "SKU001", "quantity": 2, "color": "red"},
		},
		"wishList": []map[string]any{
			{"sku": "SKU004", "quantity": 1},
		},
		"clientId": "client-1",
	}, "")

	require.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)

	var o struct {
		ID      string `json:"id"`
		Code    string `json:"code"`
		BuyList []struct {
			SKU      string  `json:"sku"`
			Subtotal float64 `json:"subtotal"`
			Color    string  `json:"color"`
		} `json:"buyList"`
		WishList []struct {
			SKU string `json:"sku"`
		} `json:"wishList"`
		Total  float64 `json:"total"`
		Status string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &o))
	assert.NotEmpty(t, o.ID)
	assert.NotEmpty(t, o.Code)
	assert.Equal(t, "pending", o.Status)
	require.Len(t, o.BuyList, 1)
	assert.InDelta(t, 59.98, o.BuyList[0].Subtotal, 0.001)
	assert.Equal(t, "red", o.BuyList[0].Color)

	// Wish list is priced but never contributes to the total.
	require.Len(t, o.WishList, 1)
	assert.InDelta(t, 59.98, o.Total, 0.001)

	// The order code is a public lookup key.
	status, _ = env.do(t, http.MethodGet, "/api/orders/code/"+o.Code, nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	env := newTestEnv()
	env.createProduct(t, "SKU003", "Sneakers Sport", 99.99, 2)

	status, resp := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"buyList": []map[string]any{
			{"sku": "SKU003", "quantity": 5},
		},
	}, "")

	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Insufficient stock for Sneakers Sport", resp.Error.Message)
}

func TestCreateOrder_UnknownSKU(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"buyList": []map[string]any{
			{"sku": "NOPE", "quantity": 1},
		},
	}, "")

	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Product with SKU NOPE not found", resp.Error.Message)
}

func TestCreateOrder_EmptyBuyList(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"buyList": []map[string]any{},
	}, "")

	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Validation error", resp.Error.Message)
}

func TestListOrders_RequiresToken(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodGet, "/api/orders", nil, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "No token provided", resp.Error.Message)

	status, resp = env.do(t, http.MethodGet, "/api/orders", nil, "bogus-token")
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid token", resp.Error.Message)
}

func TestOrderWorkflow_AsCashier(t *testing.T) {
	env := newTestEnv()
	env.createProduct(t, "SKU001", "T-Shirt Classic", 29.99, 100)
	token := env.registerCashier(t, "cashier@example.com")

	_, resp := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"buyList": []map[string]any{{"sku": "SKU001", "quantity": 1}},
	}, "")
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	status, resp := env.do(t, http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, status)
	var orders []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &orders))
	assert.Len(t, orders, 1)

	status, _ = env.do(t, http.MethodGet, "/api/orders/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, status)

	status, resp = env.do(t, http.MethodPatch, "/api/orders/"+created.ID+"/status", map[string]any{
		"status": "paid",
	}, token)
	require.Equal(t, http.StatusOK, status)
	var updated struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "paid", updated.Status)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv()
	token := env.registerCashier(t, "cashier@example.com")

	status, resp := env.do(t, http.MethodPatch, "/api/orders/some-id/status", map[string]any{
		"status": "shipped",
	}, token)

	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, `Invalid status "shipped"`, resp.Error.Message)
}

func TestDeleteOrder_RoleGate(t *testing.T) {
	env := newTestEnv()
	env.createProduct(t, "SKU001", "T-Shirt Classic", 29.99, 100)

	_, resp := env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"buyList": []map[string]any{{"sku": "SKU001", "quantity": 1}},
	}, "")
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	cashierToken := env.registerCashier(t, "cashier@example.com")
	status, resp := env.do(t, http.MethodDelete, "/api/orders/"+created.ID, nil, cashierToken)
	require.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Insufficient permissions", resp.Error.Message)

	adminToken := env.seedAdmin(t)
	status, resp = env.do(t, http.MethodDelete, "/api/orders/"+created.ID, nil, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Order deleted", resp.Message)

	status, resp = env.do(t, http.MethodDelete, "/api/orders/"+created.ID, nil, adminToken)
	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Order with ID "+created.ID+" not found", resp.Error.Message)
}

// --- Auth tests ---

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "new@example.com",
		"password": "password123",
		"name":     "New Cashier",
	}, "")
	require.Equal(t, http.StatusCreated, status)

	var profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "new@example.com", profile.Email)
	assert.Equal(t, "cashier", profile.Role)

	env.login(t, "new@example.com", "password123")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.registerCashier(t, "taken@example.com")

	status, resp := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "taken@example.com",
		"password": "password123",
		"name":     "Dup",
	}, "")

	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Email already registered", resp.Error.Message)
}

func TestRegister_ValidationError(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "short",
		"name":     "",
	}, "")

	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Validation error", resp.Error.Message)

	details, ok := resp.Error.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 3)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv()
	env.registerCashier(t, "cashier@example.com")

	status, resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "cashier@example.com",
		"password": "wrongpassword",
	}, "")

	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid credentials", resp.Error.Message)
}
