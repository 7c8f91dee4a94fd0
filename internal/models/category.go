package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a storefront category
type Category struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string         `json:"name" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"not null;uniqueIndex"`
	Description *string        `json:"description,omitempty"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	Position    int            `json:"position" gorm:"default:0"`
	IsActive    bool           `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	Position    int     `json:"position"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Position    *int    `json:"position,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// CategoryResponse represents a single category response
type CategoryResponse struct {
	Success bool      `json:"success"`
	Data    *Category `json:"data"`
}

// CategoryListResponse represents a list of categories response
type CategoryListResponse struct {
	Success    bool            `json:"success"`
	Data       []Category      `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
