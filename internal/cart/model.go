package cart

import (
	"bdstore-be/internal/product"
)

// Line is one (product, variant selection, quantity) entry in a cart.
// The JSON shape is the persisted wire format of the cart and must stay
// stable across releases, persisted carts from older sessions are still
// loaded back.
type Line struct {
	ProductID        string                   `json:"id"`
	Name             string                   `json:"name"`
	ImageURL         string                   `json:"image_url"`
	Price            float64                  `json:"price"`
	FinalPrice       float64                  `json:"final_price"`
	Quantity         int                      `json:"quantity"`
	Stock            int                      `json:"stock"`
	SelectedVariants product.VariantSelection `json:"selectedVariants"`
}

// Key is the identity of a line within a cart: at most one line exists
// per key.
type Key struct {
	ProductID string
	Signature string
}

func (l Line) Key() Key {
	return Key{
		ProductID: l.ProductID,
		Signature: l.SelectedVariants.Signature(),
	}
}
