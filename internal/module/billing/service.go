package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellforge/server/internal/utils/metrics"
)

// PhoneChecker reports whether a user has a phone number on file. Paid
// subscriptions are gated on one.
type PhoneChecker interface {
	HasPhone(ctx context.Context, userID uuid.UUID) (bool, error)
}

// SessionStarter opens a gateway checkout session for a paid plan. The
// subscription row already exists as incomplete; the webhook activates it
// by id once payment confirms.
type SessionStarter interface {
	StartSubscriptionSession(ctx context.Context, userID, subscriptionID uuid.UUID, plan *Plan) (*SubscriptionSession, error)
}

// Service implements subscription operations.
type Service struct {
	repo     Repository
	phones   PhoneChecker
	sessions SessionStarter
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new billing service.
func NewService(repo Repository, phones PhoneChecker, sessions SessionStarter, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		phones:   phones,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// ListPlans returns all plans with the option state computed for userID.
// uuid.Nil lists for an anonymous caller, who holds no subscription.
func (s *Service) ListPlans(ctx context.Context, userID uuid.UUID) ([]PlanListing, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	var current *Subscription
	if userID != uuid.Nil {
		current, err = s.repo.GetActiveSubscription(ctx, userID)
		if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
			return nil, err
		}
	}

	listings := make([]PlanListing, 0, len(plans))
	for _, plan := range plans {
		listings = append(listings, PlanListing{
			Plan: plan,
			Option: Resolve(PlanOptionInput{
				Plan:     plan,
				Current:  current,
				Resolved: true,
			}),
		})
	}
	return listings, nil
}

// GetSubscription returns the user's active or trialing subscription.
func (s *Service) GetSubscription(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	return s.repo.GetActiveSubscription(ctx, userID)
}

// Subscribe creates a subscription or switches the existing one, whichever
// applies. Callers that don't track the user's subscription state can use
// this single entry point.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID, planCode string) (*SubscriptionResult, error) {
	current, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}
	if current != nil {
		return s.Switch(ctx, userID, planCode)
	}
	return s.Create(ctx, userID, planCode)
}

// Create starts a new subscription. A trial-bearing plan for an eligible
// user activates immediately; a paid plan returns a payment session and the
// subscription stays incomplete until the webhook confirms payment.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, planCode string) (*SubscriptionResult, error) {
	plan, err := s.checkPlan(ctx, userID, planCode)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}
	if current != nil {
		return nil, ErrSubscriptionExists
	}

	if plan.TrialDays > 0 && TrialEligible(current) {
		return s.startTrial(ctx, userID, plan)
	}

	return s.startPaymentSession(ctx, userID, plan, "create")
}

// Switch moves the user's subscription to a different plan. The change is
// applied by the payment webhook once the gateway confirms.
func (s *Service) Switch(ctx context.Context, userID uuid.UUID, planCode string) (*SubscriptionResult, error) {
	plan, err := s.checkPlan(ctx, userID, planCode)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.PlanID == plan.ID {
		return nil, ErrAlreadyOnPlan
	}

	return s.startPaymentSession(ctx, userID, plan, "switch")
}

// Cancel ends the user's subscription at once.
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub.Status = StatusCanceled
	sub.CanceledAt = &now
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.metrics.RecordSubscriptionEvent("canceled")
	s.logger.Info("subscription canceled",
		zap.String("user_id", userID.String()),
		zap.String("subscription_id", sub.ID.String()))
	return sub, nil
}

// ActivateSubscription marks an incomplete subscription active after the
// gateway confirms payment, ending any previously held subscription. Called
// from the payment webhook.
func (s *Service) ActivateSubscription(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.activate(ctx, subscriptionID)
}

// checkPlan runs the guards shared by create and switch: the plan must
// exist, be offered, be a paid tier, and the user must have a phone number.
func (s *Service) checkPlan(ctx context.Context, userID uuid.UUID, planCode string) (*Plan, error) {
	plan, err := s.repo.GetPlanByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}
	if plan.Disabled {
		return nil, ErrPlanDisabled
	}
	if plan.IsFree() {
		return nil, ErrFreePlanNotPurchasable
	}

	hasPhone, err := s.phones.HasPhone(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasPhone {
		return nil, ErrPhoneRequired
	}

	return plan, nil
}

func (s *Service) startTrial(ctx context.Context, userID uuid.UUID, plan *Plan) (*SubscriptionResult, error) {
	trialEnd := time.Now().AddDate(0, 0, plan.TrialDays)
	sub := &Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      StatusTrialing,
		TrialEndsAt: &trialEnd,
		Plan:        plan,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.metrics.RecordSubscriptionEvent("trial_started")
	s.logger.Info("trial started",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.Code),
		zap.Int("trial_days", plan.TrialDays))

	return &SubscriptionResult{
		Kind:         KindSubscription,
		Status:       StatusTrialing,
		Subscription: sub,
	}, nil
}

func (s *Service) startPaymentSession(ctx context.Context, userID uuid.UUID, plan *Plan, operation string) (*SubscriptionResult, error) {
	// the webhook flips this to active once the gateway confirms
	sub := &Subscription{
		ID:     uuid.New(),
		UserID: userID,
		PlanID: plan.ID,
		Status: StatusIncomplete,
		Plan:   plan,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	session, err := s.sessions.StartSubscriptionSession(ctx, userID, sub.ID, plan)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSubscriptionEvent(operation + "_session_started")
	s.logger.Info("subscription payment session started",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.Code),
		zap.String("operation", operation))

	return &SubscriptionResult{
		Kind:             KindPayment,
		PaymentSessionID: session.PaymentSessionID,
		Environment:      session.Environment,
	}, nil
}

func (s *Service) activate(ctx context.Context, subscriptionID uuid.UUID) error {
	// incomplete rows aren't returned by GetActiveSubscription, load direct
	sub, err := s.repo.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}

	if prev, err := s.repo.GetActiveSubscription(ctx, sub.UserID); err == nil {
		now := time.Now()
		prev.Status = StatusCanceled
		prev.CanceledAt = &now
		if err := s.repo.UpdateSubscription(ctx, prev); err != nil {
			return err
		}
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	if sub.Plan != nil && sub.Plan.BillingCycle == CycleYearly {
		periodEnd = time.Now().AddDate(1, 0, 0)
	}
	sub.Status = StatusActive
	sub.CurrentPeriodEnd = &periodEnd
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	s.metrics.RecordSubscriptionEvent("activated")
	s.logger.Info("subscription activated",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("user_id", sub.UserID.String()))
	return nil
}
