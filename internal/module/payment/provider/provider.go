package provider

import "context"

// CheckoutParams describes the hosted checkout session to open. Reference
// is our payment id and comes back in the webhook.
type CheckoutParams struct {
	Reference     string
	AmountCents   int64
	Currency      string
	Description   string
	CustomerEmail string
	NotifyURL     string
	ReturnURL     string
	Metadata      map[string]string
}

// CheckoutSession is a hosted payment page session at the gateway.
type CheckoutSession struct {
	ID          string
	URL         string
	AmountCents int64
	Currency    string
}

// Webhook event types, normalized across gateways.
const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
	EventIgnored          = "ignored"
)

// WebhookEvent is a verified, normalized gateway notification.
type WebhookEvent struct {
	ID          string
	Type        string
	Reference   string // our payment id
	ProviderRef string // gateway's transaction id
	AmountCents int64
	Metadata    map[string]string
	// AckBody is what the gateway expects as the response body, empty
	// when a plain 200 suffices.
	AckBody string
}

// Provider is a payment gateway capable of hosted checkout.
type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error)
	// ParseWebhook verifies and normalizes a gateway notification. The
	// raw body and headers are passed through untouched so signature
	// schemes of any shape work.
	ParseWebhook(ctx context.Context, body []byte, headers map[string]string) (*WebhookEvent, error)
}
