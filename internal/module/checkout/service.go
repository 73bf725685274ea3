package checkout

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/module/cart"
	"github.com/sellforge/server/internal/module/payment"
	"github.com/sellforge/server/internal/utils/metrics"
)

// CartReader loads a user's cart.
type CartReader interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
}

// PhoneChecker reports whether a user has a phone number on file.
type PhoneChecker interface {
	HasPhone(ctx context.Context, userID uuid.UUID) (bool, error)
}

// SessionOpener opens a gateway checkout session for a purchase.
type SessionOpener interface {
	StartPurchaseSession(ctx context.Context, userID uuid.UUID, item payment.PurchaseItem) (*payment.Session, error)
}

// Result is what the client needs to continue at the gateway.
type Result struct {
	PaymentSessionID string `json:"payment_session_id"`
	Environment      string `json:"environment"`
	PayURL           string `json:"pay_url,omitempty"`
}

// Service orchestrates checkout. Guards run in a fixed order before any
// gateway call: cart contents first, then the phone requirement, then the
// single-item limit. The cart is left untouched; only the payment webhook
// clears it.
type Service struct {
	carts    CartReader
	phones   PhoneChecker
	sessions SessionOpener
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new checkout service.
func NewService(carts CartReader, phones PhoneChecker, sessions SessionOpener, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		carts:    carts,
		phones:   phones,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// Start runs one checkout attempt for the user's cart.
func (s *Service) Start(ctx context.Context, userID uuid.UUID) (*Result, error) {
	attempt := NewAttempt()
	if err := attempt.To(StateValidating); err != nil {
		return nil, err
	}

	c, err := s.validate(ctx, userID)
	if err != nil {
		attempt.Fail(err)
		s.recordFailure(userID, err)
		return nil, err
	}

	if err := attempt.To(StateFetchingSession); err != nil {
		return nil, err
	}

	line := c.Items[0]
	session, err := s.sessions.StartPurchaseSession(ctx, userID, payment.PurchaseItem{
		ProductID:   line.ProductID,
		Title:       line.Title,
		AmountCents: line.PriceCents * int64(line.Quantity),
		Currency:    line.Currency,
	})
	if err != nil {
		attempt.Fail(err)
		s.metrics.RecordCheckoutAttempt("gateway_error")
		s.logger.Error("checkout session failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	if err := attempt.To(StateRedirecting); err != nil {
		return nil, err
	}

	s.metrics.RecordCheckoutAttempt("redirecting")
	s.logger.Info("checkout redirecting",
		zap.String("user_id", userID.String()),
		zap.String("session_id", session.PaymentSessionID))

	return &Result{
		PaymentSessionID: session.PaymentSessionID,
		Environment:      session.Environment,
		PayURL:           session.PayURL,
	}, nil
}

// validate runs the guards in order and returns the cart on success.
func (s *Service) validate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}

	hasPhone, err := s.phones.HasPhone(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasPhone {
		return nil, ErrPhoneRequired
	}

	if c.Count() > 1 {
		return nil, ErrMultipleItems
	}

	return c, nil
}

func (s *Service) recordFailure(userID uuid.UUID, err error) {
	guard := "error"
	switch err {
	case ErrCartEmpty:
		guard = "cart_empty"
	case ErrPhoneRequired:
		guard = "phone_required"
	case ErrMultipleItems:
		guard = "multiple_items"
	}
	s.metrics.RecordGuardFailure(guard)
	s.metrics.RecordCheckoutAttempt("failed")
	s.logger.Info("checkout blocked",
		zap.String("user_id", userID.String()),
		zap.String("guard", guard))
}
