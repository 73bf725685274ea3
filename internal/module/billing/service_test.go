package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	plans map[string]*Plan
	subs  map[uuid.UUID]*Subscription
}

func newMemoryRepo(plans ...*Plan) *memoryRepo {
	r := &memoryRepo{
		plans: make(map[string]*Plan),
		subs:  make(map[uuid.UUID]*Subscription),
	}
	for _, p := range plans {
		r.plans[p.Code] = p
	}
	return r
}

func (r *memoryRepo) ListPlans(_ context.Context) ([]*Plan, error) {
	var plans []*Plan
	for _, p := range r.plans {
		plans = append(plans, p)
	}
	return plans, nil
}

func (r *memoryRepo) GetPlan(_ context.Context, id uuid.UUID) (*Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPlanNotFound
}

func (r *memoryRepo) GetPlanByCode(_ context.Context, code string) (*Plan, error) {
	if p, ok := r.plans[code]; ok {
		return p, nil
	}
	return nil, ErrPlanNotFound
}

func (r *memoryRepo) GetSubscription(_ context.Context, id uuid.UUID) (*Subscription, error) {
	if s, ok := r.subs[id]; ok {
		copied := *s
		for _, p := range r.plans {
			if p.ID == copied.PlanID {
				copied.Plan = p
			}
		}
		return &copied, nil
	}
	return nil, ErrSubscriptionNotFound
}

func (r *memoryRepo) GetActiveSubscription(_ context.Context, userID uuid.UUID) (*Subscription, error) {
	for _, s := range r.subs {
		if s.UserID == userID && s.IsActive() {
			copied := *s
			return &copied, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (r *memoryRepo) CreateSubscription(_ context.Context, sub *Subscription) error {
	copied := *sub
	r.subs[sub.ID] = &copied
	return nil
}

func (r *memoryRepo) UpdateSubscription(_ context.Context, sub *Subscription) error {
	copied := *sub
	r.subs[sub.ID] = &copied
	return nil
}

type stubPhones struct {
	hasPhone bool
}

func (s *stubPhones) HasPhone(context.Context, uuid.UUID) (bool, error) {
	return s.hasPhone, nil
}

type stubSessions struct {
	calls              int
	lastSubscriptionID uuid.UUID
}

func (s *stubSessions) StartSubscriptionSession(_ context.Context, _, subscriptionID uuid.UUID, _ *Plan) (*SubscriptionSession, error) {
	s.calls++
	s.lastSubscriptionID = subscriptionID
	return &SubscriptionSession{PaymentSessionID: "cs_test_123", Environment: "sandbox"}, nil
}

func proPlan() *Plan {
	return &Plan{ID: uuid.New(), Code: "pro", Name: "Pro", PriceCents: 1900}
}

func trialPlan() *Plan {
	return &Plan{ID: uuid.New(), Code: "plus", Name: "Plus", PriceCents: 900, TrialDays: 14}
}

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("paid plan returns a payment session", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(newMemoryRepo(proPlan()), &stubPhones{hasPhone: true}, sessions, nil, zap.NewNop())

		result, err := svc.Create(ctx, userID, "pro")
		require.NoError(t, err)
		assert.Equal(t, KindPayment, result.Kind)
		assert.Equal(t, "cs_test_123", result.PaymentSessionID)
		assert.Equal(t, "sandbox", result.Environment)
		assert.Equal(t, 1, sessions.calls)
	})

	t.Run("paid session leaves the subscription incomplete until the webhook", func(t *testing.T) {
		repo := newMemoryRepo(proPlan())
		svc := NewService(repo, &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Create(ctx, userID, "pro")
		require.NoError(t, err)

		_, err = svc.GetSubscription(ctx, userID)
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})

	t.Run("trial plan activates without the gateway", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(newMemoryRepo(trialPlan()), &stubPhones{hasPhone: true}, sessions, nil, zap.NewNop())

		result, err := svc.Create(ctx, userID, "plus")
		require.NoError(t, err)
		assert.Equal(t, KindSubscription, result.Kind)
		assert.Equal(t, StatusTrialing, result.Status)
		require.NotNil(t, result.Subscription)
		assert.NotNil(t, result.Subscription.TrialEndsAt)
		assert.Zero(t, sessions.calls)
	})

	t.Run("missing phone blocks before the gateway", func(t *testing.T) {
		sessions := &stubSessions{}
		svc := NewService(newMemoryRepo(proPlan()), &stubPhones{hasPhone: false}, sessions, nil, zap.NewNop())

		_, err := svc.Create(ctx, userID, "pro")
		assert.ErrorIs(t, err, ErrPhoneRequired)
		assert.Zero(t, sessions.calls)
	})

	t.Run("existing subscription refuses a second", func(t *testing.T) {
		plan := trialPlan()
		svc := NewService(newMemoryRepo(plan, proPlan()), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Create(ctx, userID, "plus")
		require.NoError(t, err)

		_, err = svc.Create(ctx, userID, "pro")
		assert.ErrorIs(t, err, ErrSubscriptionExists)
	})

	t.Run("free plan is not purchasable", func(t *testing.T) {
		free := &Plan{ID: uuid.New(), Code: "free", PriceCents: 0}
		svc := NewService(newMemoryRepo(free), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Create(ctx, userID, "free")
		assert.ErrorIs(t, err, ErrFreePlanNotPurchasable)
	})

	t.Run("disabled plan is refused", func(t *testing.T) {
		legacy := &Plan{ID: uuid.New(), Code: "legacy", PriceCents: 500, Disabled: true}
		svc := NewService(newMemoryRepo(legacy), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Create(ctx, userID, "legacy")
		assert.ErrorIs(t, err, ErrPlanDisabled)
	})

	t.Run("unknown plan", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Create(ctx, userID, "nope")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestSwitchSubscription(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	setup := func(t *testing.T) (*Service, *memoryRepo, *stubSessions) {
		repo := newMemoryRepo(trialPlan(), proPlan())
		sessions := &stubSessions{}
		svc := NewService(repo, &stubPhones{hasPhone: true}, sessions, nil, zap.NewNop())
		_, err := svc.Create(ctx, userID, "plus")
		require.NoError(t, err)
		return svc, repo, sessions
	}

	t.Run("switch to a different plan opens a payment session", func(t *testing.T) {
		svc, _, sessions := setup(t)

		result, err := svc.Switch(ctx, userID, "pro")
		require.NoError(t, err)
		assert.Equal(t, KindPayment, result.Kind)
		assert.Equal(t, 1, sessions.calls)
	})

	t.Run("switch to the held plan is refused", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.Switch(ctx, userID, "plus")
		assert.ErrorIs(t, err, ErrAlreadyOnPlan)
	})

	t.Run("switch without a subscription", func(t *testing.T) {
		svc := NewService(newMemoryRepo(proPlan()), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		_, err := svc.Switch(ctx, userID, "pro")
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})
}

func TestSubscribeDispatch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("no subscription routes to create", func(t *testing.T) {
		svc := NewService(newMemoryRepo(trialPlan()), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

		result, err := svc.Subscribe(ctx, userID, "plus")
		require.NoError(t, err)
		assert.Equal(t, StatusTrialing, result.Status)
	})

	t.Run("held subscription routes to switch", func(t *testing.T) {
		svc := NewService(newMemoryRepo(trialPlan(), proPlan()), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())
		_, err := svc.Subscribe(ctx, userID, "plus")
		require.NoError(t, err)

		_, err = svc.Subscribe(ctx, userID, "plus")
		assert.ErrorIs(t, err, ErrAlreadyOnPlan)
	})
}

func TestCancelSubscription(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc := NewService(newMemoryRepo(trialPlan()), &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

	_, err := svc.Create(ctx, userID, "plus")
	require.NoError(t, err)

	sub, err := svc.Cancel(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, sub.Status)
	assert.NotNil(t, sub.CanceledAt)

	_, err = svc.GetSubscription(ctx, userID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestActivateSubscription(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newMemoryRepo(trialPlan(), proPlan())
	svc := NewService(repo, &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

	// trial first, then a paid switch pending payment
	_, err := svc.Create(ctx, userID, "plus")
	require.NoError(t, err)
	_, err = svc.Switch(ctx, userID, "pro")
	require.NoError(t, err)

	var pending *Subscription
	for _, s := range repo.subs {
		if s.Status == StatusIncomplete {
			pending = s
		}
	}
	require.NotNil(t, pending)

	require.NoError(t, svc.ActivateSubscription(ctx, pending.ID))

	sub, err := svc.GetSubscription(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, pending.ID, sub.ID)

	// the old trial was ended
	for _, s := range repo.subs {
		if s.ID != pending.ID {
			assert.Equal(t, StatusCanceled, s.Status)
		}
	}
}

func TestActivateSubscriptionPeriodEnd(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		cycle string
		want  time.Time
	}{
		{"monthly", CycleMonthly, time.Now().AddDate(0, 1, 0)},
		{"yearly", CycleYearly, time.Now().AddDate(1, 0, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := &Plan{ID: uuid.New(), Code: "pro", Name: "Pro", PriceCents: 1900, BillingCycle: tc.cycle}
			repo := newMemoryRepo(plan)
			sessions := &stubSessions{}
			svc := NewService(repo, &stubPhones{hasPhone: true}, sessions, nil, zap.NewNop())
			userID := uuid.New()

			res, err := svc.Create(ctx, userID, "pro")
			require.NoError(t, err)
			require.Equal(t, KindPayment, res.Kind)

			require.NoError(t, svc.ActivateSubscription(ctx, sessions.lastSubscriptionID))

			sub, err := svc.GetSubscription(ctx, userID)
			require.NoError(t, err)
			require.NotNil(t, sub.CurrentPeriodEnd)
			assert.WithinDuration(t, tc.want, *sub.CurrentPeriodEnd, time.Minute)
		})
	}
}

func TestListPlans(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newMemoryRepo(trialPlan(), proPlan())
	svc := NewService(repo, &stubPhones{hasPhone: true}, &stubSessions{}, nil, zap.NewNop())

	t.Run("anonymous caller sees trial offers", func(t *testing.T) {
		listings, err := svc.ListPlans(ctx, uuid.Nil)
		require.NoError(t, err)
		require.Len(t, listings, 2)

		byCode := map[string]PlanOption{}
		for _, l := range listings {
			byCode[l.Plan.Code] = l.Option
		}
		assert.Equal(t, StateStartTrial, byCode["plus"].State)
		assert.Equal(t, StateChangePlan, byCode["pro"].State)
	})

	t.Run("subscriber sees current and manage states", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, "plus")
		require.NoError(t, err)

		listings, err := svc.ListPlans(ctx, userID)
		require.NoError(t, err)

		byCode := map[string]PlanOption{}
		for _, l := range listings {
			byCode[l.Plan.Code] = l.Option
		}
		assert.Equal(t, StateCurrentPlan, byCode["plus"].State)
		assert.Equal(t, StateManageSubscription, byCode["pro"].State)
	})
}
