package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	freePlan := &Plan{ID: uuid.New(), Code: "free", PriceCents: 0}
	proPlan := &Plan{ID: uuid.New(), Code: "pro", PriceCents: 1900}
	trialPlan := &Plan{ID: uuid.New(), Code: "plus", PriceCents: 900, TrialDays: 14}
	disabledPlan := &Plan{ID: uuid.New(), Code: "legacy", PriceCents: 500, Disabled: true}

	activeOn := func(plan *Plan) *Subscription {
		return &Subscription{ID: uuid.New(), PlanID: plan.ID, Status: StatusActive}
	}
	trialingOn := func(plan *Plan) *Subscription {
		return &Subscription{ID: uuid.New(), PlanID: plan.ID, Status: StatusTrialing}
	}

	tests := []struct {
		name  string
		in    PlanOptionInput
		state PlanOptionState
	}{
		{
			name:  "unresolved lookup is loading",
			in:    PlanOptionInput{Plan: proPlan, Resolved: false},
			state: StateLoading,
		},
		{
			name:  "unresolved masks everything, even disabled",
			in:    PlanOptionInput{Plan: disabledPlan, Resolved: false, Processing: true},
			state: StateLoading,
		},
		{
			name:  "disabled plan is unavailable",
			in:    PlanOptionInput{Plan: disabledPlan, Resolved: true},
			state: StateUnavailable,
		},
		{
			name:  "disabled masks current plan",
			in:    PlanOptionInput{Plan: disabledPlan, Current: activeOn(disabledPlan), Resolved: true},
			state: StateUnavailable,
		},
		{
			name:  "free tier is the default plan",
			in:    PlanOptionInput{Plan: freePlan, Resolved: true},
			state: StateDefaultPlan,
		},
		{
			name:  "free tier stays default even with a paid subscription held",
			in:    PlanOptionInput{Plan: freePlan, Current: activeOn(proPlan), Resolved: true},
			state: StateDefaultPlan,
		},
		{
			name:  "active subscription on this plan",
			in:    PlanOptionInput{Plan: proPlan, Current: activeOn(proPlan), Resolved: true},
			state: StateCurrentPlan,
		},
		{
			name:  "trialing subscription on this plan counts as current",
			in:    PlanOptionInput{Plan: trialPlan, Current: trialingOn(trialPlan), Resolved: true},
			state: StateCurrentPlan,
		},
		{
			name:  "different plan held routes to subscription management",
			in:    PlanOptionInput{Plan: trialPlan, Current: activeOn(proPlan), Resolved: true},
			state: StateManageSubscription,
		},
		{
			name:  "held subscription masks trial offer",
			in:    PlanOptionInput{Plan: trialPlan, Current: trialingOn(proPlan), Resolved: true},
			state: StateManageSubscription,
		},
		{
			name:  "trial plan with no subscription offers the trial",
			in:    PlanOptionInput{Plan: trialPlan, Resolved: true},
			state: StateStartTrial,
		},
		{
			name:  "canceled subscription does not block a trial",
			in:    PlanOptionInput{Plan: trialPlan, Current: &Subscription{PlanID: proPlan.ID, Status: StatusCanceled}, Resolved: true},
			state: StateStartTrial,
		},
		{
			name:  "trial offer wins over processing",
			in:    PlanOptionInput{Plan: trialPlan, Resolved: true, Processing: true},
			state: StateStartTrial,
		},
		{
			name:  "dispatch in flight",
			in:    PlanOptionInput{Plan: proPlan, Resolved: true, Processing: true},
			state: StateProcessing,
		},
		{
			name:  "plain purchase",
			in:    PlanOptionInput{Plan: proPlan, Resolved: true},
			state: StateChangePlan,
		},
		{
			name:  "past_due subscription reads as no subscription",
			in:    PlanOptionInput{Plan: proPlan, Current: &Subscription{PlanID: proPlan.ID, Status: StatusPastDue}, Resolved: true},
			state: StateChangePlan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := Resolve(tt.in)
			assert.Equal(t, tt.state, opt.State)
		})
	}

	t.Run("trial offer zeroes the display price and keeps the regular price", func(t *testing.T) {
		opt := Resolve(PlanOptionInput{Plan: trialPlan, Resolved: true})
		assert.Equal(t, StateStartTrial, opt.State)
		assert.Equal(t, int64(0), opt.DisplayPriceCents)
		assert.Equal(t, int64(900), opt.RegularPriceCents)
		assert.True(t, opt.Selectable)
	})

	t.Run("non-actionable states are not selectable", func(t *testing.T) {
		for _, in := range []PlanOptionInput{
			{Plan: proPlan, Resolved: false},
			{Plan: disabledPlan, Resolved: true},
			{Plan: freePlan, Resolved: true},
			{Plan: proPlan, Current: activeOn(proPlan), Resolved: true},
			{Plan: proPlan, Resolved: true, Processing: true},
		} {
			opt := Resolve(in)
			assert.False(t, opt.Selectable, "state %s", opt.State)
		}
	})
}

func TestTrialEligible(t *testing.T) {
	tests := []struct {
		name     string
		current  *Subscription
		eligible bool
	}{
		{"no subscription", nil, true},
		{"active subscription", &Subscription{Status: StatusActive}, false},
		{"trialing subscription", &Subscription{Status: StatusTrialing}, false},
		{"canceled subscription", &Subscription{Status: StatusCanceled}, true},
		{"past_due subscription", &Subscription{Status: StatusPastDue}, true},
		{"incomplete subscription", &Subscription{Status: StatusIncomplete}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eligible, TrialEligible(tt.current))
		})
	}
}
