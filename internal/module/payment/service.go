package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/module/billing"
	"github.com/sellforge/server/internal/module/payment/provider"
	"github.com/sellforge/server/internal/utils/metrics"
)

// Metadata keys carried through the gateway and back in the webhook.
const (
	metaPurpose   = "purpose"
	metaProductID = "product_id"
)

// Config holds payment service configuration.
type Config struct {
	// Environment is handed to clients with every session so they talk
	// to the matching gateway frontend: sandbox or production.
	Environment     string
	DefaultProvider string
	NotifyBaseURL   string
	ReturnURL       string
}

// Gateway opens checkout sessions and resolves providers. *Registry
// satisfies it.
type Gateway interface {
	Get(name string) (provider.Provider, error)
	CreateCheckoutSession(ctx context.Context, name string, params *provider.CheckoutParams) (*provider.CheckoutSession, error)
}

// CartClearer empties a user's cart after a completed purchase.
type CartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// SubscriptionActivator marks a pending subscription active once its
// payment confirms.
type SubscriptionActivator interface {
	ActivateSubscription(ctx context.Context, subscriptionID uuid.UUID) error
}

// PurchaseItem is the single line being bought.
type PurchaseItem struct {
	ProductID   uuid.UUID
	Title       string
	AmountCents int64
	Currency    string
}

// Session is what the client needs to reach the gateway's payment page.
type Session struct {
	PaymentSessionID string `json:"payment_session_id"`
	Environment      string `json:"environment"`
	PayURL           string `json:"pay_url,omitempty"`
}

// Service implements payment operations.
type Service struct {
	repo      Repository
	gateway   Gateway
	carts     CartClearer
	activator SubscriptionActivator
	config    *Config
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a new payment service.
func NewService(repo Repository, gateway Gateway, carts CartClearer, activator SubscriptionActivator, config *Config, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		carts:     carts,
		activator: activator,
		config:    config,
		metrics:   m,
		logger:    logger,
	}
}

// StartPurchaseSession opens a checkout session for a single product. The
// payment row is created pending and the webhook settles it.
func (s *Service) StartPurchaseSession(ctx context.Context, userID uuid.UUID, item PurchaseItem) (*Session, error) {
	payment := &Payment{
		ID:          uuid.New(),
		UserID:      userID,
		Provider:    s.config.DefaultProvider,
		Purpose:     PurposePurchase,
		AmountCents: item.AmountCents,
		Currency:    item.Currency,
		Status:      StatusPending,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	session, err := s.openSession(ctx, payment, item.Title, map[string]string{
		metaPurpose:   PurposePurchase,
		metaProductID: item.ProductID.String(),
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// StartSubscriptionSession opens a checkout session for a paid plan. It
// satisfies billing's session starter.
func (s *Service) StartSubscriptionSession(ctx context.Context, userID, subscriptionID uuid.UUID, plan *billing.Plan) (*billing.SubscriptionSession, error) {
	payment := &Payment{
		ID:             uuid.New(),
		UserID:         userID,
		Provider:       s.config.DefaultProvider,
		Purpose:        PurposeSubscription,
		SubscriptionID: &subscriptionID,
		AmountCents:    plan.PriceCents,
		Currency:       plan.Currency,
		Status:         StatusPending,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	session, err := s.openSession(ctx, payment, plan.Name+" plan", map[string]string{
		metaPurpose: PurposeSubscription,
	})
	if err != nil {
		return nil, err
	}

	return &billing.SubscriptionSession{
		PaymentSessionID: session.PaymentSessionID,
		Environment:      session.Environment,
	}, nil
}

// GetPayment returns one of the user's payments.
func (s *Service) GetPayment(ctx context.Context, userID, paymentID uuid.UUID) (*Payment, error) {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListPayments returns the user's payment history.
func (s *Service) ListPayments(ctx context.Context, userID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, userID)
}

// HasPurchase reports whether the user owns the product.
func (s *Service) HasPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return s.repo.HasPurchase(ctx, userID, productID)
}

// HandleWebhook verifies and applies one gateway notification. The
// returned ack is what the gateway expects as the response body. A
// redelivered event acks without reprocessing.
func (s *Service) HandleWebhook(ctx context.Context, providerName string, body []byte, headers map[string]string) (string, error) {
	prov, err := s.gateway.Get(providerName)
	if err != nil {
		return "", err
	}

	event, err := prov.ParseWebhook(ctx, body, headers)
	if err != nil {
		s.metrics.RecordWebhookEvent(providerName, "unknown", "invalid")
		return "", err
	}

	if event.Type == provider.EventIgnored {
		s.metrics.RecordWebhookEvent(providerName, event.Type, "ignored")
		return event.AckBody, nil
	}

	first, err := s.repo.MarkEventProcessed(ctx, providerName, event.ID)
	if err != nil {
		return "", err
	}
	if !first {
		s.logger.Info("webhook event already processed",
			zap.String("provider", providerName),
			zap.String("event_id", event.ID))
		s.metrics.RecordWebhookEvent(providerName, event.Type, "duplicate")
		return event.AckBody, nil
	}

	if err := s.applyEvent(ctx, event); err != nil {
		// forget the event so the gateway's retry isn't dropped as a duplicate
		if unmarkErr := s.repo.UnmarkEventProcessed(ctx, providerName, event.ID); unmarkErr != nil {
			s.logger.Error("failed to unmark webhook event",
				zap.String("provider", providerName),
				zap.String("event_id", event.ID),
				zap.Error(unmarkErr))
		}
		s.metrics.RecordWebhookEvent(providerName, event.Type, "error")
		return "", err
	}

	s.metrics.RecordWebhookEvent(providerName, event.Type, "ok")
	return event.AckBody, nil
}

func (s *Service) openSession(ctx context.Context, payment *Payment, description string, metadata map[string]string) (*Session, error) {
	params := &provider.CheckoutParams{
		Reference:   payment.ID.String(),
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		Description: description,
		NotifyURL:   s.config.NotifyBaseURL + "/webhooks/" + payment.Provider,
		ReturnURL:   s.config.ReturnURL,
		Metadata:    metadata,
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.Provider, params)
	if err != nil {
		payment.Status = StatusFailed
		payment.FailureReason = err.Error()
		if updateErr := s.repo.UpdatePayment(ctx, payment); updateErr != nil {
			s.logger.Error("failed to mark payment failed",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(updateErr))
		}
		return nil, err
	}

	payment.SessionID = session.ID
	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session opened",
		zap.String("payment_id", payment.ID.String()),
		zap.String("provider", payment.Provider),
		zap.String("purpose", payment.Purpose),
		zap.Int64("amount_cents", payment.AmountCents))

	return &Session{
		PaymentSessionID: session.ID,
		Environment:      s.config.Environment,
		PayURL:           session.URL,
	}, nil
}

func (s *Service) applyEvent(ctx context.Context, event *provider.WebhookEvent) error {
	paymentID, err := uuid.Parse(event.Reference)
	if err != nil {
		return fmt.Errorf("webhook reference is not a payment id: %q", event.Reference)
	}

	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.IsSettled() {
		s.logger.Info("payment already settled, skipping",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", payment.Status))
		return nil
	}

	switch event.Type {
	case provider.EventPaymentSucceeded:
		return s.settleSucceeded(ctx, payment, event)
	case provider.EventPaymentFailed:
		payment.Status = StatusFailed
		payment.ProviderRef = event.ProviderRef
		payment.FailureReason = "gateway reported failure"
		return s.repo.UpdatePayment(ctx, payment)
	default:
		return nil
	}
}

func (s *Service) settleSucceeded(ctx context.Context, payment *Payment, event *provider.WebhookEvent) error {
	// a purchase event without a usable product id must not settle: the
	// buyer would pay and own nothing. Fail before flipping the payment so
	// redelivery can finish the job.
	var productID uuid.UUID
	if payment.Purpose == PurposePurchase {
		var err error
		productID, err = uuid.Parse(event.Metadata[metaProductID])
		if err != nil {
			return fmt.Errorf("purchase webhook without product id for payment %s: %w", payment.ID, err)
		}
	}

	payment.Status = StatusSucceeded
	payment.ProviderRef = event.ProviderRef
	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return err
	}

	switch payment.Purpose {
	case PurposePurchase:
		if err := s.repo.CreatePurchases(ctx, []*Purchase{{
			ID:        uuid.New(),
			UserID:    payment.UserID,
			ProductID: productID,
			PaymentID: payment.ID,
		}}); err != nil {
			return err
		}

		// the cart survives checkout on purpose; only a confirmed
		// payment empties it
		if err := s.carts.Clear(ctx, payment.UserID); err != nil {
			s.logger.Error("failed to clear cart after purchase",
				zap.String("user_id", payment.UserID.String()),
				zap.Error(err))
		}

	case PurposeSubscription:
		if payment.SubscriptionID != nil {
			if err := s.activator.ActivateSubscription(ctx, *payment.SubscriptionID); err != nil {
				return err
			}
		}
	}

	s.logger.Info("payment settled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("purpose", payment.Purpose),
		zap.Int64("amount_cents", payment.AmountCents))
	return nil
}
