package dto

import "time"

// APIResponse is the standard envelope for API responses.
type APIResponse struct {
	Success    bool            `json:"success" example:"true"`
	Data       interface{}     `json:"data,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Timestamp  time.Time       `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful APIResponse envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPaginatedResponse wraps a page of items with pagination metadata.
func NewPaginatedResponse(items interface{}, pagination PaginationInfo) APIResponse {
	return APIResponse{
		Success:    true,
		Data:       items,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	}
}

// PaginationInfo describes the page window of a list response.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"42"`
	TotalPages  int   `json:"totalPages" example:"5"`
}

// SuccessResponse represents a plain message-only success body
type SuccessResponse struct {
	Message string `json:"message"`
}
