package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleType represents a user role
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        uuid.UUID `json:"id" db:"id" example:"0d9bbe31-5bf2-4f7e-9f39-0b1a5ab1c111"` // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"ogrenci@example.com"`            // User's email address
	Password  string    `json:"-" db:"password"`                                           // User's hashed password (excluded from JSON)
	FirstName string    `json:"firstName" db:"first_name" example:"Ayşe"`                  // User's first name
	LastName  string    `json:"lastName" db:"last_name" example:"Yılmaz"`                  // User's last name
	Role      RoleType  `json:"role" db:"role" example:"user"`                             // User's role (user or admin)
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`  // Timestamp when the user was created
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`  // Timestamp when the user was last updated
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
