package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorApplication represents a user's request to gain selling
// privileges. At most one application per user is intended; this is
// enforced by a read-then-insert check in the service, not by a
// database constraint, so concurrent submissions can race.
type VendorApplication struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     string    `json:"userId" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"not null"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	Phone      *string   `json:"phone,omitempty"`
	Category   *string   `json:"category,omitempty"`
	Reviewed   bool      `json:"reviewed" gorm:"not null;default:false"`
	InsertedAt time.Time `json:"insertedAt" gorm:"autoCreateTime"`
}

// VendorProfile represents the selling profile created when an
// application is promoted. Its ID is the identity-provider user id.
type VendorProfile struct {
	ID        string    `json:"id" gorm:"primary_key"`
	Category  *string   `json:"category,omitempty"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
	Rating    float64   `json:"rating" gorm:"not null;default:0"`
	Verified  bool      `json:"verified" gorm:"not null;default:false"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubmitApplicationRequest represents a vendor application submission
type SubmitApplicationRequest struct {
	UserID   string  `json:"user_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Message  string  `json:"message" binding:"required"`
	Phone    *string `json:"phone,omitempty"`
	Category *string `json:"category,omitempty"`
}

// ApplicationResponse represents a single application response
type ApplicationResponse struct {
	Success bool               `json:"success"`
	Data    *VendorApplication `json:"data"`
}

// ApplicationListResponse represents the application list payload
type ApplicationListResponse struct {
	Success      bool                `json:"success"`
	Applications []VendorApplication `json:"applications"`
	Pagination   *PaginationInfo     `json:"pagination,omitempty"`
}

// PromotionResult reports what a successful promotion produced.
type PromotionResult struct {
	Application *VendorApplication `json:"application"`
	Profile     *VendorProfile     `json:"profile"`
	IdentityID  string             `json:"identityId"`
}

// TableName returns the table name for the VendorApplication model
func (VendorApplication) TableName() string {
	return "vendor_applications"
}

// TableName returns the table name for the VendorProfile model
func (VendorProfile) TableName() string {
	return "vendor_profiles"
}
