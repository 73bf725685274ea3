package settings

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements settings operations. The saved row is the reference
// state for dirty checks: a save that changes nothing is rejected, and a
// successful save makes the submitted state the new reference.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new settings service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProfile returns the user's profile section.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileSettings, error) {
	return s.repo.GetProfile(ctx, userID)
}

// GetStore returns the user's store section.
func (s *Service) GetStore(ctx context.Context, userID uuid.UUID) (*StoreSettings, error) {
	return s.repo.GetStore(ctx, userID)
}

// GetPayout returns the user's payout section.
func (s *Service) GetPayout(ctx context.Context, userID uuid.UUID) (*PayoutSettings, error) {
	return s.repo.GetPayout(ctx, userID)
}

// SaveProfile persists the profile section if it differs from the saved one.
func (s *Service) SaveProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileSettings, error) {
	saved, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	submitted := &ProfileSettings{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Website:     req.Website,
	}

	changed := ChangedFields(*saved, *submitted)
	if len(changed) == 0 {
		return nil, ErrNotDirty
	}

	if err := s.repo.SaveProfile(ctx, submitted); err != nil {
		return nil, err
	}

	s.logger.Info("profile settings saved",
		zap.String("user_id", userID.String()),
		zap.Strings("changed", changed))
	return submitted, nil
}

// SaveStore persists the store section if it differs from the saved one.
func (s *Service) SaveStore(ctx context.Context, userID uuid.UUID, req *UpdateStoreRequest) (*StoreSettings, error) {
	saved, err := s.repo.GetStore(ctx, userID)
	if err != nil {
		return nil, err
	}

	submitted := &StoreSettings{
		UserID:       userID,
		StoreName:    req.StoreName,
		SupportEmail: req.SupportEmail,
		Tagline:      req.Tagline,
		VacationMode: req.VacationMode,
	}

	changed := ChangedFields(*saved, *submitted)
	if len(changed) == 0 {
		return nil, ErrNotDirty
	}

	if err := s.repo.SaveStore(ctx, submitted); err != nil {
		return nil, err
	}

	s.logger.Info("store settings saved",
		zap.String("user_id", userID.String()),
		zap.Strings("changed", changed))
	return submitted, nil
}

// SavePayout persists the payout section. The account number confirmation
// is checked before anything else; a mismatch fails even when the section
// would otherwise be clean.
func (s *Service) SavePayout(ctx context.Context, userID uuid.UUID, req *UpdatePayoutRequest) (*PayoutSettings, error) {
	if req.AccountNumber != req.AccountNumberConfirm {
		return nil, ErrAccountMismatch
	}

	saved, err := s.repo.GetPayout(ctx, userID)
	if err != nil {
		return nil, err
	}

	submitted := &PayoutSettings{
		UserID:        userID,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		RoutingNumber: req.RoutingNumber,
		BankName:      req.BankName,
	}

	changed := ChangedFields(*saved, *submitted)
	if len(changed) == 0 {
		return nil, ErrNotDirty
	}

	if err := s.repo.SavePayout(ctx, submitted); err != nil {
		return nil, err
	}

	s.logger.Info("payout settings saved",
		zap.String("user_id", userID.String()),
		zap.Strings("changed", changed))
	return submitted, nil
}
