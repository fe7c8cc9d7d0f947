package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bdstore-be/internal/order"
	"bdstore-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type updateStatusRequest struct {
	Status       string  `json:"status"`
	TrackingCode *string `json:"tracking_code"`
	Carrier      *string `json:"carrier"`
}

// GetOrder handles GET /orders/{orderID}. The service enforces that
// non-admins only see their own orders.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := h.orders.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

// ListOrders handles GET /orders, the admin console listing. Supports
// ?status=, ?limit= and ?page=.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status *order.Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := order.Status(s)
		status = &st
	}

	limit := parseQueryInt(r, "limit", 20)
	page := parseQueryInt(r, "page", 1)

	orders, err := h.orders.GetOrders(r.Context(), status, limit, page)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /orders/{orderID}/status, one lifecycle
// transition per call.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		utils.WriteJSONError(w, "status is required", http.StatusBadRequest)
		return
	}

	err := h.orders.UpdateOrderStatus(r.Context(), orderID, order.Status(req.Status), req.TrackingCode, req.Carrier)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	o, err := h.orders.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrUnauthorized):
		utils.WriteJSONError(w, "not allowed", http.StatusForbidden)
	case errors.Is(err, order.ErrInvalidStatus), errors.Is(err, order.ErrInvalidTransition):
		utils.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func parseQueryInt(r *http.Request, key string, def int32) int32 {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 {
		return def
	}
	return int32(n)
}
