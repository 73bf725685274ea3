package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sellforge/server/internal/utils/pagination"
	"gorm.io/gorm"
)

// Repository defines the interface for product data access.
type Repository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListPublished(ctx context.Context, p *pagination.Pagination) ([]*Product, int64, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, p *pagination.Pagination) ([]*Product, int64, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (r *repository) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return &product, nil
}

func (r *repository) ListPublished(ctx context.Context, p *pagination.Pagination) ([]*Product, int64, error) {
	var products []*Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{}).Where("published = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	err := query.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) ListByCreator(ctx context.Context, creatorID uuid.UUID, p *pagination.Pagination) ([]*Product, int64, error) {
	var products []*Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{}).Where("creator_id = ?", creatorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count creator products: %w", err)
	}

	err := query.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list creator products: %w", err)
	}

	return products, total, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrSlugTaken
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *repository) UpdateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
