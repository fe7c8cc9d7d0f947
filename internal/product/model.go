package product

// VariantDef describes one configurable axis of a product,
// e.g. {Name: "Cor", Options: ["Preto", "Branco"]}.
type VariantDef struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	ImageURL    string       `json:"image_url"`
	Images      []string     `json:"images,omitempty"`
	Price       float64      `json:"price"`
	Discount    float64      `json:"discount"`
	FinalPrice  float64      `json:"final_price"`
	Stock       int          `json:"stock"`
	Variants    []VariantDef `json:"variants,omitempty"`
}

// StockInfo is the live inventory view read at checkout time.
type StockInfo struct {
	ProductID string
	Name      string
	Stock     int
}
