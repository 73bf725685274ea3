package billing

// Result kinds. A subscription request either resolves entirely server-side
// (free trial) or hands the client a payment session to complete.
const (
	KindSubscription = "subscription"
	KindPayment      = "payment"
)

// SubscribeRequest asks to create or switch to a plan.
type SubscribeRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// SubscriptionSession is a gateway checkout session for a subscription.
type SubscriptionSession struct {
	PaymentSessionID string `json:"payment_session_id"`
	Environment      string `json:"environment"`
}

// SubscriptionResult is the tagged union returned by create and switch.
// Kind discriminates: "subscription" carries Status and Subscription,
// "payment" carries PaymentSessionID and Environment.
type SubscriptionResult struct {
	Kind             string        `json:"kind"`
	Status           string        `json:"status,omitempty"`
	Subscription     *Subscription `json:"subscription,omitempty"`
	PaymentSessionID string        `json:"payment_session_id,omitempty"`
	Environment      string        `json:"environment,omitempty"`
}

// PlanListing is a plan with its computed option state for the caller.
type PlanListing struct {
	Plan   *Plan      `json:"plan"`
	Option PlanOption `json:"option"`
}

// ListPlansResponse is the plan catalog.
type ListPlansResponse struct {
	Plans []PlanListing `json:"plans"`
}
