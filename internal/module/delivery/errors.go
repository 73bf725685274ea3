package delivery

import "errors"

var (
	// ErrNotEntitled indicates the user has not purchased the product.
	ErrNotEntitled = errors.New("product not purchased")

	// ErrNoFile indicates the product has no downloadable file.
	ErrNoFile = errors.New("product has no file")
)
