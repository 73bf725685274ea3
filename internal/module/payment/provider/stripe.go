package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
}

// StripeProvider implements Provider using Stripe hosted checkout.
type StripeProvider struct {
	webhookSecret string
}

// NewStripeProvider creates a new Stripe provider.
func NewStripeProvider(config *StripeConfig) *StripeProvider {
	stripe.Key = config.APIKey
	return &StripeProvider{
		webhookSecret: config.WebhookSecret,
	}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateCheckoutSession opens a hosted checkout session.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(params.Reference),
		SuccessURL:        stripe.String(params.ReturnURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if len(params.Metadata) > 0 {
		sessionParams.Metadata = make(map[string]string, len(params.Metadata))
		for k, v := range params.Metadata {
			sessionParams.Metadata[k] = v
		}
	}

	s, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		AmountCents: s.AmountTotal,
		Currency:    string(s.Currency),
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and normalizes the
// event. Event types outside the checkout session lifecycle are ignored.
func (p *StripeProvider) ParseWebhook(_ context.Context, body []byte, headers map[string]string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(body, headers["Stripe-Signature"], p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		return p.sessionEvent(&event, EventPaymentSucceeded)
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		return p.sessionEvent(&event, EventPaymentFailed)
	default:
		return &WebhookEvent{ID: event.ID, Type: EventIgnored}, nil
	}
}

func (p *StripeProvider) sessionEvent(event *stripe.Event, eventType string) (*WebhookEvent, error) {
	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("parse checkout session: %w", err)
	}

	return &WebhookEvent{
		ID:          event.ID,
		Type:        eventType,
		Reference:   s.ClientReferenceID,
		ProviderRef: s.ID,
		AmountCents: s.AmountTotal,
		Metadata:    s.Metadata,
	}, nil
}
