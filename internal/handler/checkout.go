package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"bdstore-be/internal/cart"
	"bdstore-be/internal/checkout"
	"bdstore-be/internal/order"
	"bdstore-be/internal/utils"
)

type CheckoutHandler struct {
	checkout checkout.Service
	storage  cart.Storage
}

func NewCheckoutHandler(svc checkout.Service, storage cart.Storage) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		storage:  storage,
	}
}

type checkoutRequest struct {
	Shipping shippingDTO `json:"shipping"`
}

type shippingDTO struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (s shippingDTO) validate() error {
	if s.FullName == "" {
		return errors.New("shipping.full_name is required")
	}
	if s.Email == "" {
		return errors.New("shipping.email is required")
	}
	if s.Address == "" {
		return errors.New("shipping.address is required")
	}
	if s.City == "" {
		return errors.New("shipping.city is required")
	}
	if s.PostalCode == "" {
		return errors.New("shipping.postal_code is required")
	}
	if s.Country == "" {
		return errors.New("shipping.country is required")
	}
	return nil
}

type insufficientStockResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id"`
	Name      string `json:"product_name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// PlaceOrder handles POST /checkout. Requires authentication; the cart
// checked out is always the user's own.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := req.Shipping.validate(); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	store := cart.NewStore(r.Context(), h.storage, "user:"+userID)

	o, err := h.checkout.PlaceOrder(r.Context(), store, order.ShippingInfo{
		FullName:   req.Shipping.FullName,
		Email:      req.Shipping.Email,
		Phone:      req.Shipping.Phone,
		Address:    req.Shipping.Address,
		City:       req.Shipping.City,
		PostalCode: req.Shipping.PostalCode,
		Country:    req.Shipping.Country,
	})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	var stockErr *checkout.InsufficientStockError
	if errors.As(err, &stockErr) {
		// Named so the storefront can tell the shopper which line to fix.
		utils.WriteJSON(w, http.StatusConflict, insufficientStockResponse{
			Error:     fmt.Sprintf("not enough stock for %s", stockErr.Name),
			ProductID: stockErr.ProductID,
			Name:      stockErr.Name,
			Requested: stockErr.Requested,
			Available: stockErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		utils.WriteJSONError(w, "cart is empty", http.StatusBadRequest)
	case errors.Is(err, checkout.ErrUnauthorized):
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
	default:
		// Persistence details stay in the logs.
		utils.WriteJSONError(w, "failed to place order, please try again", http.StatusInternalServerError)
	}
}
