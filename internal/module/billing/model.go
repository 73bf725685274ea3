package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Subscription statuses.
const (
	StatusActive     = "active"
	StatusTrialing   = "trialing"
	StatusPastDue    = "past_due"
	StatusCanceled   = "canceled"
	StatusIncomplete = "incomplete"
)

// Billing cycles.
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Plan is a subscription tier. A plan with price 0 is the free tier and is
// never purchasable; everyone without a paid subscription is on it.
type Plan struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`
	Name         string         `gorm:"not null" json:"name"`
	PriceCents   int64          `gorm:"not null;default:0" json:"price_cents"`
	Currency     string         `gorm:"not null;default:'usd'" json:"currency"`
	BillingCycle string         `gorm:"not null;default:'monthly'" json:"billing_cycle"`
	TrialDays    int            `gorm:"not null;default:0" json:"trial_days"`
	Features     pq.StringArray `gorm:"type:text[]" json:"features"`
	Disabled     bool           `gorm:"default:false" json:"disabled"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName specifies the table name.
func (Plan) TableName() string {
	return "plans"
}

// IsFree reports whether this is the free tier.
func (p *Plan) IsFree() bool {
	return p.PriceCents == 0
}

// Subscription is a user's enrollment in a plan.
type Subscription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	PlanID           uuid.UUID  `gorm:"type:uuid;not null" json:"plan_id"`
	Status           string     `gorm:"not null" json:"status"`
	TrialEndsAt      *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CanceledAt       *time.Time `json:"canceled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

// TableName specifies the table name.
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive reports whether the subscription currently grants access. Trials
// count; past_due, canceled and incomplete do not.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}
