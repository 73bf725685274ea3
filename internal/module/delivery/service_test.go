package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/module/catalog"
)

type stubProducts struct {
	products map[uuid.UUID]*catalog.Product
}

func (s *stubProducts) GetProduct(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

type stubEntitlements struct {
	owned map[uuid.UUID]bool
}

func (s *stubEntitlements) HasPurchase(_ context.Context, _, productID uuid.UUID) (bool, error) {
	return s.owned[productID], nil
}

type stubPresigner struct {
	calls []string
}

func (s *stubPresigner) PresignDownload(_ context.Context, key string, expiry time.Duration) (string, time.Time, error) {
	s.calls = append(s.calls, key)
	return "https://cdn.example.com/" + key + "?sig=abc", time.Now().Add(expiry), nil
}

func TestGetDownloadLink(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	paid := &catalog.Product{ID: uuid.New(), Title: "Icon Pack", PriceCents: 1200, FileKey: "products/icons.zip"}
	free := &catalog.Product{ID: uuid.New(), Title: "Sampler", PriceCents: 0, FileKey: "products/sampler.zip"}
	noFile := &catalog.Product{ID: uuid.New(), Title: "Service", PriceCents: 500}

	newService := func(owned ...uuid.UUID) (*Service, *stubPresigner) {
		products := &stubProducts{products: map[uuid.UUID]*catalog.Product{
			paid.ID: paid, free.ID: free, noFile.ID: noFile,
		}}
		entitlements := &stubEntitlements{owned: map[uuid.UUID]bool{}}
		for _, id := range owned {
			entitlements.owned[id] = true
		}
		presigner := &stubPresigner{}
		return NewService(products, entitlements, presigner, 0, zap.NewNop()), presigner
	}

	t.Run("purchased product presigns", func(t *testing.T) {
		svc, presigner := newService(paid.ID)

		link, err := svc.GetDownloadLink(ctx, userID, paid.ID)
		require.NoError(t, err)
		assert.Contains(t, link.URL, "products/icons.zip")
		assert.True(t, link.ExpiresAt.After(time.Now()))
		assert.Equal(t, []string{"products/icons.zip"}, presigner.calls)
	})

	t.Run("unpurchased paid product is refused", func(t *testing.T) {
		svc, presigner := newService()

		_, err := svc.GetDownloadLink(ctx, userID, paid.ID)
		assert.ErrorIs(t, err, ErrNotEntitled)
		assert.Empty(t, presigner.calls)
	})

	t.Run("free product needs no purchase", func(t *testing.T) {
		svc, _ := newService()

		link, err := svc.GetDownloadLink(ctx, userID, free.ID)
		require.NoError(t, err)
		assert.Contains(t, link.URL, "products/sampler.zip")
	})

	t.Run("product without a file", func(t *testing.T) {
		svc, _ := newService(noFile.ID)

		_, err := svc.GetDownloadLink(ctx, userID, noFile.ID)
		assert.ErrorIs(t, err, ErrNoFile)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.GetDownloadLink(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}
