package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the marketplace. Accounts are provisioned by the
// identity provider; this service only reads and edits profile fields.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	Phone       string    `json:"phone"`
	AvatarURL   string    `json:"avatar_url"`
	Creator     bool      `gorm:"default:false" json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (User) TableName() string {
	return "users"
}

// HasPhone reports whether a phone number is on file. Checkout and paid
// subscription signup require one.
func (u *User) HasPhone() bool {
	return u.Phone != ""
}
