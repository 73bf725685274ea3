package cart

import (
	"github.com/google/uuid"
)

// LineItem is one product entry in a cart. Price and title are snapshotted
// at add time so the cart renders without a catalog round-trip.
type LineItem struct {
	ProductID  uuid.UUID `json:"product_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	Currency   string    `json:"currency"`
	Quantity   int       `json:"quantity"`
}

// Cart holds a user's line items.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Total returns the cart total in cents. It is recomputed from the lines on
// every call; there is no cached value to drift.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// Count returns the number of line items.
func (c *Cart) Count() int {
	return len(c.Items)
}

// IsEmpty returns true when the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// indexOf returns the position of the product's line, or -1.
func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
