package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/module/catalog"
)

type memoryStore struct {
	carts map[uuid.UUID]*Cart
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: make(map[uuid.UUID]*Cart)}
}

func (s *memoryStore) Get(_ context.Context, userID uuid.UUID) (*Cart, error) {
	if c, ok := s.carts[userID]; ok {
		copied := &Cart{Items: append([]LineItem(nil), c.Items...)}
		return copied, nil
	}
	return &Cart{}, nil
}

func (s *memoryStore) Save(_ context.Context, userID uuid.UUID, c *Cart) error {
	s.carts[userID] = &Cart{Items: append([]LineItem(nil), c.Items...)}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	delete(s.carts, userID)
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]*catalog.Product
}

func (s *stubProducts) GetProduct(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

func newTestService(products ...*catalog.Product) (*Service, *memoryStore) {
	store := newMemoryStore()
	getter := &stubProducts{products: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		getter.products[p.ID] = p
	}
	return NewService(store, getter, nil, zap.NewNop()), store
}

func testProduct(price int64) *catalog.Product {
	return &catalog.Product{
		ID:         uuid.New(),
		Title:      "Test Product",
		PriceCents: price,
		Currency:   "usd",
	}
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("adds new product at quantity 1", func(t *testing.T) {
		product := testProduct(1500)
		svc, _ := newTestService(product)

		c, err := svc.AddItem(ctx, userID, product.ID)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, product.ID, c.Items[0].ProductID)
		assert.Equal(t, 1, c.Items[0].Quantity)
		assert.Equal(t, int64(1500), c.Total())
	})

	t.Run("adding same product again is a no-op", func(t *testing.T) {
		product := testProduct(1500)
		svc, _ := newTestService(product)

		_, err := svc.AddItem(ctx, userID, product.ID)
		require.NoError(t, err)
		c, err := svc.AddItem(ctx, userID, product.ID)
		require.NoError(t, err)

		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)
	})

	t.Run("no-op even after quantity was raised", func(t *testing.T) {
		product := testProduct(1000)
		svc, _ := newTestService(product)

		_, err := svc.AddItem(ctx, userID, product.ID)
		require.NoError(t, err)
		_, err = svc.UpdateQuantity(ctx, userID, product.ID, 4)
		require.NoError(t, err)

		c, err := svc.AddItem(ctx, userID, product.ID)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.AddItem(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	setup := func(t *testing.T) (*Service, *catalog.Product) {
		product := testProduct(1000)
		svc, _ := newTestService(product)
		_, err := svc.AddItem(ctx, userID, product.ID)
		require.NoError(t, err)
		return svc, product
	}

	t.Run("increments", func(t *testing.T) {
		svc, product := setup(t)

		c, err := svc.UpdateQuantity(ctx, userID, product.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Items[0].Quantity)
		assert.Equal(t, int64(3000), c.Total())
	})

	t.Run("decrement clamps at 1", func(t *testing.T) {
		svc, product := setup(t)

		c, err := svc.UpdateQuantity(ctx, userID, product.ID, -1)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Items[0].Quantity)

		// the line is never removed through quantity changes
		c, err = svc.UpdateQuantity(ctx, userID, product.ID, -10)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)
	})

	t.Run("product not in cart", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.UpdateQuantity(ctx, userID, uuid.New(), 1)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("removes the line", func(t *testing.T) {
		first := testProduct(1000)
		second := testProduct(2500)
		svc, _ := newTestService(first, second)
		_, err := svc.AddItem(ctx, userID, first.ID)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, userID, second.ID)
		require.NoError(t, err)

		c, err := svc.RemoveItem(ctx, userID, first.ID)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, second.ID, c.Items[0].ProductID)
		assert.Equal(t, int64(2500), c.Total())
	})

	t.Run("product not in cart", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.RemoveItem(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	product := testProduct(1000)
	svc, store := newTestService(product)

	_, err := svc.AddItem(ctx, userID, product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, userID))

	_, ok := store.carts[userID]
	assert.False(t, ok)

	c, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartTotal(t *testing.T) {
	c := &Cart{Items: []LineItem{
		{ProductID: uuid.New(), PriceCents: 1000, Quantity: 2},
		{ProductID: uuid.New(), PriceCents: 500, Quantity: 3},
	}}

	assert.Equal(t, int64(3500), c.Total())
	assert.Equal(t, 2, c.Count())

	// total follows price edits, nothing is cached
	c.Items[0].PriceCents = 2000
	assert.Equal(t, int64(5500), c.Total())
}
