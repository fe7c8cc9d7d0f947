package handler

import (
	"errors"
	"net/http"

	"bdstore-be/internal/product"
	"bdstore-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	products product.Repository
}

func NewProductHandler(products product.Repository) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts handles GET /products. Only products with stock are
// listed, the storefront never shows what it cannot sell.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.GetAllInStock(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []product.Product{}
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// GetProduct handles GET /products/{productID}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	p, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, product.ErrProductNotFound) {
		utils.WriteJSONError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.WriteJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}
