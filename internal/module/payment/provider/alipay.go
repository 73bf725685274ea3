package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-pay/gopay"
	"github.com/go-pay/gopay/alipay"
)

// AlipayConfig holds Alipay configuration.
type AlipayConfig struct {
	AppID           string // Application ID
	PrivateKey      string // RSA2 private key (PEM format)
	AlipayPublicKey string // Alipay public key for verification (PEM format)
	IsProd          bool
	NotifyURL       string
	ReturnURL       string
}

// AlipayProvider implements Provider using Alipay page pay.
type AlipayProvider struct {
	client *alipay.Client
	config *AlipayConfig
}

// NewAlipayProvider creates a new Alipay provider.
func NewAlipayProvider(config *AlipayConfig) (*AlipayProvider, error) {
	client, err := alipay.NewClient(config.AppID, config.PrivateKey, config.IsProd)
	if err != nil {
		return nil, fmt.Errorf("create alipay client: %w", err)
	}

	client.AutoVerifySign([]byte(config.AlipayPublicKey))

	return &AlipayProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *AlipayProvider) Name() string {
	return "alipay"
}

// CreateCheckoutSession opens a page pay order. The session id is the
// out_trade_no; Alipay has no separate session object.
func (p *AlipayProvider) CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error) {
	notifyURL := params.NotifyURL
	if notifyURL == "" {
		notifyURL = p.config.NotifyURL
	}
	returnURL := params.ReturnURL
	if returnURL == "" {
		returnURL = p.config.ReturnURL
	}

	// Alipay amounts are yuan with 2 decimal places
	amountStr := fmt.Sprintf("%.2f", float64(params.AmountCents)/100)

	bm := make(gopay.BodyMap)
	bm.Set("out_trade_no", params.Reference)
	bm.Set("total_amount", amountStr)
	bm.Set("subject", params.Description)
	bm.Set("product_code", "FAST_INSTANT_TRADE_PAY")
	bm.Set("timeout_express", "30m")
	if len(params.Metadata) > 0 {
		passback, _ := json.Marshal(params.Metadata)
		bm.Set("passback_params", string(passback))
	}

	p.client.SetNotifyUrl(notifyURL)
	p.client.SetReturnUrl(returnURL)

	payURL, err := p.client.TradePagePay(ctx, bm)
	if err != nil {
		return nil, fmt.Errorf("create page pay: %w", err)
	}

	return &CheckoutSession{
		ID:          params.Reference,
		URL:         payURL,
		AmountCents: params.AmountCents,
		Currency:    "CNY",
	}, nil
}

// ParseWebhook parses and verifies an async notification. Alipay posts
// form-urlencoded data and expects the literal body "success" back.
func (p *AlipayProvider) ParseWebhook(ctx context.Context, body []byte, _ map[string]string) (*WebhookEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	notify, err := alipay.ParseNotifyToBodyMap(req)
	if err != nil {
		return nil, fmt.Errorf("parse notify: %w", err)
	}

	ok, err := alipay.VerifySign(p.config.AlipayPublicKey, notify)
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}
	if !ok {
		return nil, errors.New("invalid signature")
	}

	event := &WebhookEvent{
		ID:          notify.Get("notify_id"),
		Reference:   notify.Get("out_trade_no"),
		ProviderRef: notify.Get("trade_no"),
		AmountCents: yuanToCents(notify.Get("total_amount")),
		AckBody:     "success",
	}

	switch notify.Get("trade_status") {
	case "TRADE_SUCCESS", "TRADE_FINISHED":
		event.Type = EventPaymentSucceeded
	case "TRADE_CLOSED":
		event.Type = EventPaymentFailed
	default:
		event.Type = EventIgnored
	}

	if passback := notify.Get("passback_params"); passback != "" {
		var metadata map[string]string
		if err := json.Unmarshal([]byte(passback), &metadata); err != nil {
			return nil, fmt.Errorf("parse passback params: %w", err)
		}
		event.Metadata = metadata
	}

	return event, nil
}

// yuanToCents converts an Alipay decimal yuan amount to cents. Rounding
// matters: "19.99" is not exactly representable as a float and would
// truncate to 1998.
func yuanToCents(amount string) int64 {
	yuan, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(yuan * 100))
}
