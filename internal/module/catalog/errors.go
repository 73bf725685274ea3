package catalog

import "errors"

var (
	// ErrProductNotFound is returned when a product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrNotOwner is returned when a creator operates on someone else's product.
	ErrNotOwner = errors.New("product belongs to another creator")
	// ErrSlugTaken is returned when a product slug is already in use.
	ErrSlugTaken = errors.New("product slug already in use")
)
