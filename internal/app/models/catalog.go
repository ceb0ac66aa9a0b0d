package models

import (
	"time"

	"github.com/google/uuid"
)

// Category defines a product category based on the 'categories' table
type Category struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name" example:"LGS"`
	Slug         string     `json:"slug" db:"slug" example:"lgs"`
	ParentID     *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	DisplayOrder int        `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// Product defines a store product based on the 'products' table
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" example:"LGS Deneme Seti"`
	Slug        string     `json:"slug" db:"slug" example:"lgs-deneme-seti"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price" example:"149.90"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty" db:"category_id"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	Stock       int        `json:"stock" db:"stock"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order defines a purchase based on the 'orders' table
type Order struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      uuid.UUID   `json:"userId" db:"user_id"`
	TotalAmount float64     `json:"totalAmount" db:"total_amount"`
	Status      OrderStatus `json:"status" db:"status" example:"pending"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
	Items       []OrderItem `json:"items,omitempty"` // Relation, no db tag
}

// OrderItem defines one line of an order based on the 'order_items' table
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"orderId" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// ProductExam links a product to an exam it unlocks ('product_exams' table)
type ProductExam struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	ExamID    uuid.UUID `json:"examId" db:"exam_id"`
}
