package models

import (
	"time"

	"github.com/google/uuid"
)

// FeaturedProduct surfaces a vendor's product on the storefront for a
// time-boxed [StartsAt, EndsAt) window.
type FeaturedProduct struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	VendorID  *string   `json:"vendorId,omitempty" gorm:"index"`
	Headline  *string   `json:"headline,omitempty"`
	StartsAt  time.Time `json:"startsAt" gorm:"not null;index"`
	EndsAt    time.Time `json:"endsAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// CreateFeaturedProductRequest represents a request to feature a product
type CreateFeaturedProductRequest struct {
	ProductID string    `json:"productId" binding:"required"`
	VendorID  *string   `json:"vendorId,omitempty"`
	Headline  *string   `json:"headline,omitempty"`
	StartsAt  time.Time `json:"startsAt" binding:"required"`
	EndsAt    time.Time `json:"endsAt" binding:"required"`
}

// FeaturedProductListResponse represents active promotions
type FeaturedProductListResponse struct {
	Success bool              `json:"success"`
	Data    []FeaturedProduct `json:"data"`
}

// TableName returns the table name for the FeaturedProduct model
func (FeaturedProduct) TableName() string {
	return "featured_products"
}
