package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/module/cart"
	"github.com/sellforge/server/internal/module/payment"
)

type stubCarts struct {
	cart *cart.Cart
}

func (s *stubCarts) GetCart(context.Context, uuid.UUID) (*cart.Cart, error) {
	return s.cart, nil
}

type stubPhones struct {
	hasPhone bool
}

func (s *stubPhones) HasPhone(context.Context, uuid.UUID) (bool, error) {
	return s.hasPhone, nil
}

type stubSessions struct {
	calls int
	err   error
	last  payment.PurchaseItem
}

func (s *stubSessions) StartPurchaseSession(_ context.Context, _ uuid.UUID, item payment.PurchaseItem) (*payment.Session, error) {
	s.calls++
	s.last = item
	if s.err != nil {
		return nil, s.err
	}
	return &payment.Session{PaymentSessionID: "sess_1", Environment: "sandbox"}, nil
}

func line(price int64, quantity int) cart.LineItem {
	return cart.LineItem{
		ProductID:  uuid.New(),
		Title:      "Icon Pack",
		PriceCents: price,
		Currency:   "usd",
		Quantity:   quantity,
	}
}

func TestStart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("single item opens a session", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(
			&stubCarts{cart: &cart.Cart{Items: []cart.LineItem{line(1200, 2)}}},
			&stubPhones{hasPhone: true},
			sessions, nil, zap.NewNop())

		result, err := svc.Start(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "sess_1", result.PaymentSessionID)
		assert.Equal(t, "sandbox", result.Environment)
		// quantity folded into the amount
		assert.Equal(t, int64(2400), sessions.last.AmountCents)
	})

	t.Run("empty cart never reaches the gateway", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(&stubCarts{cart: &cart.Cart{}}, &stubPhones{hasPhone: true}, sessions, nil, zap.NewNop())

		_, err := svc.Start(ctx, userID)
		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.Zero(t, sessions.calls)
	})

	t.Run("missing phone blocks after the cart check", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(
			&stubCarts{cart: &cart.Cart{Items: []cart.LineItem{line(1200, 1)}}},
			&stubPhones{hasPhone: false},
			sessions, nil, zap.NewNop())

		_, err := svc.Start(ctx, userID)
		assert.ErrorIs(t, err, ErrPhoneRequired)
		assert.Zero(t, sessions.calls)
	})

	t.Run("empty cart wins over missing phone", func(t *testing.T) {
		svc := NewService(&stubCarts{cart: &cart.Cart{}}, &stubPhones{hasPhone: false}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Start(ctx, userID)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("two items never reach the gateway", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(
			&stubCarts{cart: &cart.Cart{Items: []cart.LineItem{line(1200, 1), line(900, 1)}}},
			&stubPhones{hasPhone: true},
			sessions, nil, zap.NewNop())

		_, err := svc.Start(ctx, userID)
		assert.ErrorIs(t, err, ErrMultipleItems)
		assert.Zero(t, sessions.calls)
	})

	t.Run("gateway error surfaces", func(t *testing.T) {
		sessions := &stubSessions{err: errors.New("gateway down")}
		svc := NewService(
			&stubCarts{cart: &cart.Cart{Items: []cart.LineItem{line(1200, 1)}}},
			&stubPhones{hasPhone: true},
			sessions, nil, zap.NewNop())

		_, err := svc.Start(ctx, userID)
		assert.EqualError(t, err, "gateway down")
	})
}

func TestAttempt(t *testing.T) {
	t.Run("happy path walks forward", func(t *testing.T) {
		a := NewAttempt()
		assert.Equal(t, StateIdle, a.State())

		require.NoError(t, a.To(StateValidating))
		require.NoError(t, a.To(StateFetchingSession))
		require.NoError(t, a.To(StateRedirecting))
		assert.Equal(t, StateRedirecting, a.State())
	})

	t.Run("skipping a phase is rejected", func(t *testing.T) {
		a := NewAttempt()
		assert.Error(t, a.To(StateFetchingSession))
		assert.Equal(t, StateIdle, a.State())
	})

	t.Run("redirecting is terminal", func(t *testing.T) {
		a := NewAttempt()
		require.NoError(t, a.To(StateValidating))
		require.NoError(t, a.To(StateFetchingSession))
		require.NoError(t, a.To(StateRedirecting))

		assert.Error(t, a.To(StateValidating))
	})

	t.Run("fail records the cause", func(t *testing.T) {
		a := NewAttempt()
		require.NoError(t, a.To(StateValidating))

		cause := errors.New("cart is empty")
		a.Fail(cause)
		assert.Equal(t, StateFailed, a.State())
		assert.Equal(t, cause, a.Failure())
	})
}
