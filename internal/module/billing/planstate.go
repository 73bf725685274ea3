package billing

// PlanOptionState classifies what a plan's action button should offer a
// given user. The states are mutually exclusive; Resolve picks the first
// rule that matches.
type PlanOptionState string

const (
	// StateLoading — the subscription lookup has not resolved yet.
	StateLoading PlanOptionState = "loading"
	// StateUnavailable — the plan is disabled and cannot be selected.
	StateUnavailable PlanOptionState = "unavailable"
	// StateDefaultPlan — the free tier; never purchasable.
	StateDefaultPlan PlanOptionState = "default_plan"
	// StateCurrentPlan — the user's active or trialing plan.
	StateCurrentPlan PlanOptionState = "current_plan"
	// StateManageSubscription — a different plan is held; changes go
	// through subscription management.
	StateManageSubscription PlanOptionState = "manage_subscription"
	// StateStartTrial — the plan offers a trial and the user is eligible.
	StateStartTrial PlanOptionState = "start_trial"
	// StateProcessing — a dispatch for this plan is in flight.
	StateProcessing PlanOptionState = "processing"
	// StateChangePlan — plain purchase or plan change.
	StateChangePlan PlanOptionState = "change_plan"
)

// PlanOptionInput is everything Resolve needs. Current is the user's
// active or trialing subscription, nil when they hold none. Resolved is
// false while the lookup is still pending, which is a distinct situation
// from a resolved "no subscription".
type PlanOptionInput struct {
	Plan       *Plan
	Current    *Subscription
	Resolved   bool
	Processing bool
}

// PlanOption is the computed presentation of one plan's action.
type PlanOption struct {
	State PlanOptionState `json:"state"`
	// DisplayPriceCents is the price to show: 0 for a trial offer, the
	// plan price otherwise. RegularPriceCents always carries the plan
	// price so a trial can show it struck through.
	DisplayPriceCents int64 `json:"display_price_cents"`
	RegularPriceCents int64 `json:"regular_price_cents"`
	Selectable        bool  `json:"selectable"`
}

// TrialEligible reports whether a user holding current may start a trial:
// only users with no active or trialing subscription qualify.
func TrialEligible(current *Subscription) bool {
	return current == nil || !current.IsActive()
}

// Resolve computes the plan's option state. Rules are checked in a strict
// priority order; earlier rules mask later ones, so a disabled free plan
// reads unavailable and the current plan never shows a trial offer.
func Resolve(in PlanOptionInput) PlanOption {
	opt := PlanOption{
		DisplayPriceCents: in.Plan.PriceCents,
		RegularPriceCents: in.Plan.PriceCents,
	}

	switch {
	case !in.Resolved:
		opt.State = StateLoading
	case in.Plan.Disabled:
		opt.State = StateUnavailable
	case in.Plan.IsFree():
		opt.State = StateDefaultPlan
	case in.Current != nil && in.Current.IsActive() && in.Current.PlanID == in.Plan.ID:
		opt.State = StateCurrentPlan
	case in.Current != nil && in.Current.IsActive():
		opt.State = StateManageSubscription
		opt.Selectable = true
	case in.Plan.TrialDays > 0 && TrialEligible(in.Current):
		opt.State = StateStartTrial
		opt.DisplayPriceCents = 0
		opt.Selectable = true
	case in.Processing:
		opt.State = StateProcessing
	default:
		opt.State = StateChangePlan
		opt.Selectable = true
	}

	return opt
}
