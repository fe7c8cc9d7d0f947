package order

import (
	"time"

	"bdstore-be/internal/product"
)

// ShippingInfo is the address snapshot frozen onto the order at
// placement time.
type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Code         string       `json:"order_code"`
	Total        float64      `json:"total"`
	Status       Status       `json:"status"`
	Shipping     ShippingInfo `json:"shipping"`
	TrackingCode *string      `json:"tracking_code,omitempty"`
	Carrier      *string      `json:"carrier,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Items        []Item       `json:"items,omitempty"`
}

// Item is one order line, immutable after placement. Price is the unit
// final price at the moment the order was placed, never re-derived.
type Item struct {
	ID        string                   `json:"id"`
	OrderID   string                   `json:"order_id"`
	ProductID string                   `json:"product_id"`
	Quantity  int                      `json:"quantity"`
	Price     float64                  `json:"price"`
	Variants  product.VariantSelection `json:"variants"`

	// Joined from products for display; empty on writes.
	ProductName     string `json:"product_name,omitempty"`
	ProductImageURL string `json:"product_image_url,omitempty"`
}
