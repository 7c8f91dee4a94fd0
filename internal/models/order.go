package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order represents a storefront order. Items is kept as the raw JSON
// array the producer sent: checkout flows, imports and legacy clients
// disagree on field names (quantity vs qty, price vs unitPrice, ...),
// so no item schema is enforced at rest. Normalization happens in the
// analytics service, not here.
type Order struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderNumber string         `json:"orderNumber" gorm:"uniqueIndex"`
	UserID      *string        `json:"userId,omitempty" gorm:"index"`
	Status      OrderStatus    `json:"status" gorm:"type:varchar(20);not null;default:'PLACED';index"`
	Items       datatypes.JSON `json:"items" gorm:"type:jsonb"`
	TotalAmount float64        `json:"totalAmount" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ReceiptLine is a normalized order line on a receipt.
type ReceiptLine struct {
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// Receipt represents a storefront order receipt.
type Receipt struct {
	OrderID     string        `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Status      OrderStatus   `json:"status"`
	Lines       []ReceiptLine `json:"lines"`
	Subtotal    float64       `json:"subtotal"`
	TotalAmount float64       `json:"totalAmount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// OrderListResponse represents a list of orders response
type OrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []Order         `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
