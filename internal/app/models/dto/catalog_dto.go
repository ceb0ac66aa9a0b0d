package dto

import "github.com/google/uuid"

// CreateCategoryRequest adds a storefront category
type CreateCategoryRequest struct {
	Name         string     `json:"name" binding:"required,min=2,max=100"`
	Slug         string     `json:"slug" binding:"required,min=2,max=100"`
	ParentID     *uuid.UUID `json:"parentId"`
	DisplayOrder int        `json:"displayOrder"`
}

// CreateProductRequest adds a product to the store
type CreateProductRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=200"`
	Slug        string     `json:"slug" binding:"required,min=2,max=200"`
	Description string     `json:"description"`
	Price       float64    `json:"price" binding:"required,gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Stock       int        `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest updates product fields; nil fields are left untouched
type UpdateProductRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=2,max=200"`
	Slug        *string    `json:"slug" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price" binding:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Stock       *int       `json:"stock" binding:"omitempty,gte=0"`
	IsActive    *bool      `json:"isActive"`
}

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest places an order for the authenticated user
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest moves an order to a new lifecycle state
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// OrderStatusResponse reports the status change and, for confirmations, how
// entitlement granting went. Failed grants never roll back the status
// change; they are only surfaced here.
type OrderStatusResponse struct {
	OrderID      uuid.UUID `json:"orderId"`
	Status       string    `json:"status"`
	GrantedExams int       `json:"grantedExams"`
	FailedGrants int       `json:"failedGrants"`
}
