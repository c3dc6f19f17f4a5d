package models

type Product struct {
	ID             string         `json:"id"`
	SKU            string         `json:"sku"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	Specifications map[string]any `json:"specifications"`
	StockQuantity  int            `json:"stockQuantity"`
	Active         bool           `json:"active"`
	CreatedAt      string         `json:"createdAt"`
}

// Available reports whether the product can currently be ordered.
func (p Product) Available() bool {
	return p.Active && p.StockQuantity > 0
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	SKU            string         `json:"sku"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	Specifications map[string]any `json:"specifications"`
	StockQuantity  int            `json:"stockQuantity"`
	Active         *bool          `json:"active,omitempty"`
}
