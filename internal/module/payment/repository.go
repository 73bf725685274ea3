package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for payment data access.
type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListPayments(ctx context.Context, userID uuid.UUID) ([]*Payment, error)
	UpdatePayment(ctx context.Context, p *Payment) error
	CreatePurchases(ctx context.Context, purchases []*Purchase) error
	HasPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	// MarkEventProcessed records the event id; it reports false when the
	// event was seen before.
	MarkEventProcessed(ctx context.Context, providerName, eventID string) (bool, error)
	// UnmarkEventProcessed forgets an event id so the gateway's redelivery
	// gets processed after a failed apply.
	UnmarkEventProcessed(ctx context.Context, providerName, eventID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePayment(ctx context.Context, p *Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *repository) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

func (r *repository) ListPayments(ctx context.Context, userID uuid.UUID) ([]*Payment, error) {
	var payments []*Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (r *repository) UpdatePayment(ctx context.Context, p *Payment) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

func (r *repository) CreatePurchases(ctx context.Context, purchases []*Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(purchases).Error; err != nil {
		return fmt.Errorf("create purchases: %w", err)
	}
	return nil
}

func (r *repository) HasPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Purchase{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return count > 0, nil
}

func (r *repository) MarkEventProcessed(ctx context.Context, providerName, eventID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ProcessedEvent{EventID: eventID, Provider: providerName})
	if result.Error != nil {
		return false, fmt.Errorf("mark event processed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) UnmarkEventProcessed(ctx context.Context, providerName, eventID string) error {
	err := r.db.WithContext(ctx).
		Where("provider = ? AND event_id = ?", providerName, eventID).
		Delete(&ProcessedEvent{}).Error
	if err != nil {
		return fmt.Errorf("unmark event processed: %w", err)
	}
	return nil
}
