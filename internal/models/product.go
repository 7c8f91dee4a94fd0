package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog product row. Stock and pricing are
// mutated by inventory management; the analytics path only reads them.
type Product struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string         `json:"name" gorm:"not null;index"`
	SKU        string         `json:"sku" gorm:"uniqueIndex"`
	CategoryID *uuid.UUID     `json:"categoryId,omitempty" gorm:"type:uuid;index"`
	Stock      int            `json:"stock" gorm:"not null;default:0"`
	CostPrice  float64        `json:"costPrice" gorm:"type:decimal(10,2);not null;default:0"`
	SellPrice  float64        `json:"sellPrice" gorm:"type:decimal(10,2);not null;default:0"`
	ImageURL   *string        `json:"imageUrl,omitempty"`
	IsActive   bool           `json:"isActive" gorm:"default:true"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name      string   `json:"name" binding:"required"`
	SKU       string   `json:"sku"`
	Stock     int      `json:"stock"`
	CostPrice float64  `json:"costPrice" binding:"min=0"`
	SellPrice float64  `json:"sellPrice" binding:"min=0"`
	ImageURL  *string  `json:"imageUrl,omitempty"`
	Category  *string  `json:"category,omitempty"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name      *string  `json:"name,omitempty"`
	SKU       *string  `json:"sku,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
	CostPrice *float64 `json:"costPrice,omitempty"`
	SellPrice *float64 `json:"sellPrice,omitempty"`
	ImageURL  *string  `json:"imageUrl,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
}

// StockEntry is a per-product stock level row in analytics responses.
type StockEntry struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku,omitempty"`
	Stock       int    `json:"stock"`
}

// ProductEconomics is a per-product margin row in analytics responses.
type ProductEconomics struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	CostPrice   float64 `json:"costPrice"`
	SellPrice   float64 `json:"sellPrice"`
	Margin      float64 `json:"margin"`
	Stock       int     `json:"stock"`
}

// ProductResponse represents a single product response
type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
}

// ProductListResponse represents a list of products response
type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
