package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/module/catalog"
)

// ProductGetter looks up products.
type ProductGetter interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// EntitlementChecker reports whether a user owns a product.
type EntitlementChecker interface {
	HasPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// Presigner issues time-limited download URLs. *ObjectStore satisfies it.
type Presigner interface {
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, time.Time, error)
}

// DownloadLink is a short-lived URL for a product file.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service hands out download links. Free products download for everyone;
// paid products require a purchase.
type Service struct {
	products     ProductGetter
	entitlements EntitlementChecker
	store        Presigner
	expiry       time.Duration
	logger       *zap.Logger
}

// NewService creates a new delivery service. A zero expiry defaults to
// 15 minutes.
func NewService(products ProductGetter, entitlements EntitlementChecker, store Presigner, expiry time.Duration, logger *zap.Logger) *Service {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Service{
		products:     products,
		entitlements: entitlements,
		store:        store,
		expiry:       expiry,
		logger:       logger,
	}
}

// GetDownloadLink verifies entitlement and presigns the product file.
func (s *Service) GetDownloadLink(ctx context.Context, userID, productID uuid.UUID) (*DownloadLink, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.FileKey == "" {
		return nil, ErrNoFile
	}

	if !product.IsFree() {
		owned, err := s.entitlements.HasPurchase(ctx, userID, productID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrNotEntitled
		}
	}

	url, expiresAt, err := s.store.PresignDownload(ctx, product.FileKey, s.expiry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("download link issued",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()))

	return &DownloadLink{URL: url, ExpiresAt: expiresAt}, nil
}
