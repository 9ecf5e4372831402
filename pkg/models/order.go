package models

import (
	"time"
)

const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order is a single purchase-order line (POL) owning its line items.
// Status is derived from stage coverage, except CANCELLED which is an
// explicit user override.
type Order struct {
	ID           int        `json:"id" db:"id"`
	OrderNumber  string     `json:"order_number" db:"order_number"`
	CustomerName string     `json:"customer_name" db:"customer_name"`
	OrderDate    time.Time  `json:"order_date" db:"order_date"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty" db:"delivery_date"`
	Status       string     `json:"status" db:"status"`
	Notes        *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time  `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty" db:"updated_at"`
	LineItems    []LineItem `json:"line_items,omitempty" db:"-"`
}

func (o *Order) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   o.ID,
		ResourceType: "order",
	}
}

type LineItem struct {
	ID          int     `json:"id" db:"id"`
	OrderID     int     `json:"order_id" db:"order_id"`
	ProductCode string  `json:"product_code" db:"product_code"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Color       *string `json:"color,omitempty" db:"color"`
	Material    *string `json:"material,omitempty" db:"material"`
	Size        *string `json:"size,omitempty" db:"size"`
	Texture     *string `json:"texture,omitempty" db:"texture"`
	Notes       *string `json:"notes,omitempty" db:"notes"`

	// Stages with at least one production record, populated on reads only.
	StageCoverage []string `json:"stage_coverage,omitempty" db:"-"`
}

func (li *LineItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   li.ID,
		ResourceType: "line_item",
	}
}

type CreateOrderRequest struct {
	OrderNumber  string                  `json:"order_number" binding:"required"`
	CustomerName string                  `json:"customer_name" binding:"required"`
	OrderDate    time.Time               `json:"order_date" binding:"required"`
	DeliveryDate *time.Time              `json:"delivery_date,omitempty"`
	Notes        *string                 `json:"notes,omitempty"`
	LineItems    []CreateLineItemRequest `json:"line_items" binding:"required,dive"`
}

type CreateLineItemRequest struct {
	ProductCode string  `json:"product_code" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	Color       *string `json:"color,omitempty"`
	Material    *string `json:"material,omitempty"`
	Size        *string `json:"size,omitempty"`
	Texture     *string `json:"texture,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type UpdateOrderRequest struct {
	CustomerName *string    `json:"customer_name,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}
