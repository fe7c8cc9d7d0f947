package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bdstore-be/internal/cart"
	"bdstore-be/internal/product"
	"bdstore-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

// CartHandler serves the shopper-facing cart endpoints. Each request
// loads its own cart.Store from the persistence port, mutates it and
// lets the store mirror itself back; the handler never touches the
// storage key space directly.
type CartHandler struct {
	storage  cart.Storage
	products product.Repository
}

func NewCartHandler(storage cart.Storage, products product.Repository) *CartHandler {
	return &CartHandler{
		storage:  storage,
		products: products,
	}
}

type addItemRequest struct {
	ProductID        string                   `json:"product_id"`
	Quantity         int                      `json:"quantity"`
	SelectedVariants product.VariantSelection `json:"selectedVariants"`
}

type updateItemRequest struct {
	Quantity         int                      `json:"quantity"`
	SelectedVariants product.VariantSelection `json:"selectedVariants"`
}

type cartResponse struct {
	Items        []cart.Line `json:"items"`
	TotalItems   int         `json:"total_items"`
	TotalPrice   float64     `json:"total_price"`
	TotalSavings float64     `json:"total_savings"`
}

func newCartResponse(s *cart.Store) cartResponse {
	items := s.Lines()
	if items == nil {
		items = []cart.Line{}
	}
	return cartResponse{
		Items:        items,
		TotalItems:   s.TotalItems(),
		TotalPrice:   s.TotalPrice(),
		TotalSavings: s.TotalSavings(),
	}
}

// cartKey resolves the storage key for this request's cart. Logged-in
// shoppers get a per-user cart that follows them across devices,
// anonymous shoppers bring a client-generated token.
func cartKey(r *http.Request) (string, bool) {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID, true
	}
	if token := r.Header.Get("X-Cart-Token"); token != "" {
		return "token:" + token, true
	}
	return "", false
}

func (h *CartHandler) loadStore(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	key, ok := cartKey(r)
	if !ok {
		utils.WriteJSONError(w, "missing cart identity, log in or send X-Cart-Token", http.StatusBadRequest)
		return nil, false
	}
	return cart.NewStore(r.Context(), h.storage, key), true
}

// GetCart handles GET /cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.loadStore(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(store))
}

// AddItem handles POST /cart/items. The line snapshot (name, prices,
// stock) is read fresh from the catalog here, not trusted from the
// client.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		utils.WriteJSONError(w, "product_id is required", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		utils.WriteJSONError(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if errors.Is(err, product.ErrProductNotFound) {
		utils.WriteJSONError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.WriteJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	store, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	store.Add(r.Context(), cart.Line{
		ProductID:        p.ID,
		Name:             p.Name,
		ImageURL:         p.ImageURL,
		Price:            p.Price,
		FinalPrice:       p.FinalPrice,
		Quantity:         req.Quantity,
		Stock:            p.Stock,
		SelectedVariants: req.SelectedVariants,
	})

	utils.WriteJSON(w, http.StatusCreated, newCartResponse(store))
}

// UpdateItem handles PATCH /cart/items/{productID}. A non-positive
// quantity removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	store, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	store.UpdateQuantity(r.Context(), productID, req.SelectedVariants, req.Quantity)
	utils.WriteJSON(w, http.StatusOK, newCartResponse(store))
}

// RemoveItem handles DELETE /cart/items/{productID}. The variant
// selection rides in the body so lines of the same product can be
// told apart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req updateItemRequest
	if r.Body != nil {
		// A missing or empty body means the no-variant line.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	store, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	store.Remove(r.Context(), productID, req.SelectedVariants)
	utils.WriteJSON(w, http.StatusOK, newCartResponse(store))
}

// ClearCart handles DELETE /cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.loadStore(w, r)
	if !ok {
		return
	}

	store.Clear(r.Context())
	utils.WriteJSON(w, http.StatusOK, newCartResponse(store))
}
