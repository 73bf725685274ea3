package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellforge/server/internal/utils/pagination"
	"go.uber.org/zap"
)

// Service implements catalog operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetProduct returns a product by ID.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// GetProductBySlug returns a product by its storefront slug.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetProductBySlug(ctx, slug)
}

// ListPublished returns the buyer-facing product listing.
func (s *Service) ListPublished(ctx context.Context, p *pagination.Pagination) ([]*Product, int64, error) {
	return s.repo.ListPublished(ctx, p)
}

// ListByCreator returns a creator's products for the dashboard.
func (s *Service) ListByCreator(ctx context.Context, creatorID uuid.UUID, p *pagination.Pagination) ([]*Product, int64, error) {
	return s.repo.ListByCreator(ctx, creatorID, p)
}

// CreateProduct creates a product owned by the given creator.
func (s *Service) CreateProduct(ctx context.Context, creatorID uuid.UUID, req *CreateProductRequest) (*Product, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	product := &Product{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    currency,
		CoverURL:    req.CoverURL,
		Tags:        req.Tags,
		FileKey:     req.FileKey,
		Published:   req.Published,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("creator_id", creatorID.String()),
	)

	return product, nil
}

// UpdateProduct updates a product after verifying ownership.
func (s *Service) UpdateProduct(ctx context.Context, creatorID, productID uuid.UUID, req *UpdateProductRequest) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CreatorID != creatorID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.CoverURL != nil {
		product.CoverURL = *req.CoverURL
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.FileKey != nil {
		product.FileKey = *req.FileKey
	}
	if req.Published != nil {
		product.Published = *req.Published
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product after verifying ownership.
func (s *Service) DeleteProduct(ctx context.Context, creatorID, productID uuid.UUID) error {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.CreatorID != creatorID {
		return ErrNotOwner
	}

	return s.repo.DeleteProduct(ctx, productID)
}
