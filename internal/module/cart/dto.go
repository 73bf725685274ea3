package cart

import "github.com/google/uuid"

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// UpdateQuantityRequest is the payload for changing a line's quantity.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CartResponse is the cart as returned to the storefront.
type CartResponse struct {
	Items      []LineItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

// ToResponse converts a cart to its API shape, computing the total fresh.
func ToResponse(c *Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}
	return CartResponse{
		Items:      items,
		TotalCents: c.Total(),
	}
}
