package billing

import "errors"

var (
	// ErrPlanNotFound indicates the plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrSubscriptionNotFound indicates the user holds no subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrSubscriptionExists indicates the user already holds an active or
	// trialing subscription and must switch instead of creating.
	ErrSubscriptionExists = errors.New("subscription already exists")

	// ErrPlanDisabled indicates the plan is not currently offered.
	ErrPlanDisabled = errors.New("plan is unavailable")

	// ErrFreePlanNotPurchasable indicates an attempt to subscribe to the
	// free tier.
	ErrFreePlanNotPurchasable = errors.New("free plan is not purchasable")

	// ErrAlreadyOnPlan indicates a switch to the plan already held.
	ErrAlreadyOnPlan = errors.New("already subscribed to this plan")

	// ErrPhoneRequired indicates the user must add a phone number before
	// starting a paid subscription.
	ErrPhoneRequired = errors.New("phone number required")
)
