package catalog

import "github.com/sellforge/server/internal/utils/pagination"

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Slug        string   `json:"slug" binding:"required,min=1,max=100"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents" binding:"min=0"`
	Currency    string   `json:"currency"`
	CoverURL    string   `json:"cover_url"`
	Tags        []string `json:"tags"`
	FileKey     string   `json:"file_key"`
	Published   bool     `json:"published"`
}

// UpdateProductRequest is the payload for updating a product.
// Pointer fields distinguish "not sent" from zero values.
type UpdateProductRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	PriceCents  *int64    `json:"price_cents,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	FileKey     *string   `json:"file_key,omitempty"`
	Published   *bool     `json:"published,omitempty"`
}

// ListProductsResponse is the paginated products response.
type ListProductsResponse struct {
	Products []*Product          `json:"products"`
	PageInfo pagination.PageInfo `json:"page_info"`
}
