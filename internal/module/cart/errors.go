package cart

import "errors"

var (
	// ErrItemNotFound is returned when the product has no line in the cart.
	ErrItemNotFound = errors.New("item not in cart")
	// ErrBadDocument is returned when a stored cart cannot be decoded.
	ErrBadDocument = errors.New("malformed cart document")
)
