package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a digital good sold through a creator storefront.
type Product struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatorID   uuid.UUID      `json:"creator_id" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"price_cents" gorm:"not null"`
	Currency    string         `json:"currency" gorm:"default:usd"`
	CoverURL    string         `json:"cover_url,omitempty"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`

	// FileKey is the object storage key of the deliverable. Never exposed;
	// buyers get a short-lived presigned URL after purchase.
	FileKey string `json:"-"`

	Published bool `json:"published" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Product) TableName() string {
	return "products"
}

// IsFree returns true for zero-priced products.
func (p *Product) IsFree() bool {
	return p.PriceCents == 0
}
