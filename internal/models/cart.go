package models

import "github.com/shopspring/decimal"

// CartItem is a product selection captured at add time.
// Name, Price and Image are copied from the product so later catalog
// reloads do not change what the shopper saw.
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal is unit price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one item per product id
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity sums quantities across all items
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Total sums item subtotals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CartResponse is the API view of a cart
type CartResponse struct {
	ID            string     `json:"id"`
	Items         []CartItem `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	Total         string     `json:"total"`
}

// NewCartResponse builds the API view of c
func NewCartResponse(c *Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartResponse{
		ID:            c.ID,
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		Total:         c.Total().StringFixed(2),
	}
}

// AddItemRequest is the body of POST /api/cart/items
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Lang      string `json:"lang,omitempty" validate:"omitempty,oneof=ua ru en"`
}
