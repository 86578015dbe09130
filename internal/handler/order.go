package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/pos-backend/internal/apperr"
	"github.com/xenking/pos-backend/internal/domain/order"
)

type orderItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
}

type createOrderRequest struct {
	BuyList  []orderItemRequest `json:"buyList"`
	WishList []orderItemRequest `json:"wishList"`
	ClientID string             `json:"clientId"`
}

func (req *createOrderRequest) validate() error {
	var problems []string
	if len(req.BuyList) == 0 {
		problems = append(problems, "buyList is required")
	}
	validateItems := func(list []orderItemRequest, name string) {
		for i, item := range list {
			if item.SKU == "" {
				problems = append(problems, fmt.Sprintf("%s[%d]: sku is required", name, i))
			}
			if item.Quantity <= 0 {
				problems = append(problems, fmt.Sprintf("%s[%d]: quantity must be positive", name, i))
			}
		}
	}
	validateItems(req.BuyList, "buyList")
	validateItems(req.WishList, "wishList")

	if len(problems) > 0 {
		return apperr.ValidationDetails("Validation error", problems)
	}
	return nil
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type lineItemResponse struct {
	ProductID string  `json:"productId"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Subtotal  float64 `json:"subtotal"`
}

type orderResponse struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	BuyList   []lineItemResponse `json:"buyList"`
	WishList  []lineItemResponse `json:"wishList"`
	Total     float64            `json:"total"`
	Status    string             `json:"status"`
	ClientID  string             `json:"clientId,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toLineItems(items []order.LineItem) []lineItemResponse {
	resp := make([]lineItemResponse, len(items))
	for i, item := range items {
		resp[i] = lineItemResponse{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Price:     item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
			Color:     item.Color,
			Subtotal:  item.Subtotal.InexactFloat64(),
		}
	}
	return resp
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		Code:      o.Code,
		BuyList:   toLineItems(o.BuyList),
		WishList:  toLineItems(o.WishList),
		Total:     o.Total.InexactFloat64(),
		Status:    string(o.Status),
		ClientID:  o.ClientID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toItemRequests(items []orderItemRequest) []order.ItemRequest {
	reqs := make([]order.ItemRequest, len(items))
	for i, item := range items {
		reqs[i] = order.ItemRequest{
			SKU:      item.SKU,
			Quantity: item.Quantity,
			Color:    item.Color,
		}
	}
	return reqs
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		BuyList:  toItemRequests(req.BuyList),
		WishList: toItemRequests(req.WishList),
		ClientID: req.ClientID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) getOrderByCode(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	respondData(w, http.StatusOK, resp)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	status, ok := order.ParseStatus(req.Status)
	if !ok {
		respondError(w, r, apperr.Validation("Invalid status %q", req.Status))
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order deleted")
}
