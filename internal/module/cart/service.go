package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellforge/server/internal/module/catalog"
	"github.com/sellforge/server/internal/utils/metrics"
	"go.uber.org/zap"
)

// ProductGetter looks up products for add-to-cart.
type ProductGetter interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// Service implements cart operations.
type Service struct {
	store    Store
	products ProductGetter
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new cart service.
func NewService(store Store, products ProductGetter, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		metrics:  m,
		logger:   logger,
	}
}

// GetCart returns the user's cart.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	return s.store.Get(ctx, userID)
}

// AddItem inserts a line for the product at quantity 1. Adding a product
// that is already in the cart is a no-op; quantity changes go through
// UpdateQuantity.
func (s *Service) AddItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if c.indexOf(productID) >= 0 {
		return c, nil
	}

	c.Items = append(c.Items, LineItem{
		ProductID:  product.ID,
		Title:      product.Title,
		PriceCents: product.PriceCents,
		Currency:   product.Currency,
		Quantity:   1,
	})

	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartOperation("add")
	}

	return c, nil
}

// UpdateQuantity applies delta to the product's quantity, clamped to a
// minimum of 1. Removal never happens through zero-crossing; it is a
// separate explicit action.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (*Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.indexOf(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	quantity := c.Items[i].Quantity + delta
	if quantity < 1 {
		quantity = 1
	}
	c.Items[i].Quantity = quantity

	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartOperation("update_quantity")
	}

	return c, nil
}

// RemoveItem deletes the product's line unconditionally.
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.indexOf(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)

	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartOperation("remove")
	}

	return c, nil
}

// Clear empties the cart. Called directly by the user, and by the payment
// webhook after a completed purchase; checkout itself never clears.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordCartOperation("clear")
	}

	s.logger.Debug("cart cleared", zap.String("user_id", userID.String()))
	return nil
}
