package payment

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Payment purposes.
const (
	PurposePurchase     = "purchase"
	PurposeSubscription = "subscription"
)

// Payment is one attempt to collect money. It starts pending when the
// checkout session opens and is settled by the gateway webhook.
type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Provider       string     `gorm:"not null" json:"provider"`
	Purpose        string     `gorm:"not null" json:"purpose"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid" json:"subscription_id,omitempty"`
	AmountCents    int64      `gorm:"not null" json:"amount_cents"`
	Currency       string     `gorm:"not null" json:"currency"`
	Status         string     `gorm:"not null;default:'pending'" json:"status"`
	SessionID      string     `gorm:"index" json:"session_id"`
	ProviderRef    string     `json:"provider_ref"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name.
func (Payment) TableName() string {
	return "payments"
}

// IsSettled reports whether the webhook already decided this payment.
func (p *Payment) IsSettled() bool {
	return p.Status != StatusPending
}

// Purchase is an entitlement to a product, created when a purchase payment
// succeeds. Downloads check against it.
type Purchase struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_purchases_user_product;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index:idx_purchases_user_product;not null" json:"product_id"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null" json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name.
func (Purchase) TableName() string {
	return "purchases"
}

// ProcessedEvent records a handled webhook event id so redeliveries are
// acknowledged without reprocessing.
type ProcessedEvent struct {
	EventID   string    `gorm:"primaryKey" json:"event_id"`
	Provider  string    `gorm:"not null" json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name.
func (ProcessedEvent) TableName() string {
	return "processed_webhook_events"
}
