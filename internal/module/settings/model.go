package settings

import (
	"time"

	"github.com/google/uuid"
)

// ProfileSettings is the public-facing profile section.
type ProfileSettings struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Website     string    `json:"website"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (ProfileSettings) TableName() string {
	return "profile_settings"
}

// StoreSettings is the storefront section for creators.
type StoreSettings struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	StoreName    string    `json:"store_name"`
	SupportEmail string    `json:"support_email"`
	Tagline      string    `json:"tagline"`
	VacationMode bool      `json:"vacation_mode"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (StoreSettings) TableName() string {
	return "store_settings"
}

// PayoutSettings is the payout destination section. The account number is
// write-only to the API.
type PayoutSettings struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	AccountHolder string    `json:"account_holder"`
	AccountNumber string    `json:"-"`
	RoutingNumber string    `json:"routing_number"`
	BankName      string    `json:"bank_name"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (PayoutSettings) TableName() string {
	return "payout_settings"
}
