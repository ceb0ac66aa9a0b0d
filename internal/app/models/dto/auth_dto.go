package dto

import "github.com/google/uuid"

// RegisterRequest represents a new account request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"ogrenci@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"Gizli123!"`
	FirstName string `json:"firstName" binding:"required,min=2,max=100" example:"Ayşe"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100" example:"Yılmaz"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ogrenci@example.com"`
	Password string `json:"password" binding:"required" example:"Gizli123!"`
}

// TokenResponse carries the issued token pair
type TokenResponse struct {
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresIn        int          `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int          `json:"refreshExpiresIn" example:"2592000"`
	User             *UserProfile `json:"user"`
}

// UserProfile is the public view of an account
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role" example:"user"`
}
