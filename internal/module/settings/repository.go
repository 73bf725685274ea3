package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for settings data access. Missing
// sections read as zero values; the first save creates the row.
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileSettings, error)
	SaveProfile(ctx context.Context, s *ProfileSettings) error
	GetStore(ctx context.Context, userID uuid.UUID) (*StoreSettings, error)
	SaveStore(ctx context.Context, s *StoreSettings) error
	GetPayout(ctx context.Context, userID uuid.UUID) (*PayoutSettings, error)
	SavePayout(ctx context.Context, s *PayoutSettings) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileSettings, error) {
	var s ProfileSettings
	err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProfileSettings{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get profile settings: %w", err)
	}
	return &s, nil
}

func (r *repository) SaveProfile(ctx context.Context, s *ProfileSettings) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("save profile settings: %w", err)
	}
	return nil
}

func (r *repository) GetStore(ctx context.Context, userID uuid.UUID) (*StoreSettings, error) {
	var s StoreSettings
	err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StoreSettings{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get store settings: %w", err)
	}
	return &s, nil
}

func (r *repository) SaveStore(ctx context.Context, s *StoreSettings) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("save store settings: %w", err)
	}
	return nil
}

func (r *repository) GetPayout(ctx context.Context, userID uuid.UUID) (*PayoutSettings, error) {
	var s PayoutSettings
	err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PayoutSettings{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get payout settings: %w", err)
	}
	return &s, nil
}

func (r *repository) SavePayout(ctx context.Context, s *PayoutSettings) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("save payout settings: %w", err)
	}
	return nil
}
