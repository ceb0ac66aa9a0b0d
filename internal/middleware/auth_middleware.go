package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/pkg/auth"
)

// currentUserKey is the context key holding the authenticated *models.User
const currentUserKey = "currentUser"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   *repositories.UserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// CurrentUser returns the authenticated user set by JWTAuth or
// OptionalJWTAuth, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// JWTAuth middleware for JWT token validation. Rejects the request when no
// valid token is present.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		user, errDetail := m.resolveUser(c, tokenString)
		if errDetail != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errDetail))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalJWTAuth resolves the user when a token is present but lets
// anonymous requests through. Listings use it to scope their results.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		user, errDetail := m.resolveUser(c, tokenString)
		if errDetail != nil {
			// A present but invalid token is still an error
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errDetail))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ensure JWTAuth middleware has run first
		user := CurrentUser(c)
		if user == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("User information not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if user.Role != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// resolveUser validates the token and loads the account behind it
func (m *AuthMiddleware) resolveUser(c *gin.Context, tokenString string) (*models.User, *dto.ErrorDetail) {
	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		errorCode := dto.ErrorCodeInvalidToken
		details := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			errorCode = dto.ErrorCodeExpiredToken
			details = "Token has expired"
		} else if errors.Is(err, auth.ErrInvalidFormat) {
			details = "Invalid token format"
		}
		errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
		return nil, errorDetail.WithDetails(details)
	}

	user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
		return nil, errorDetail.WithDetails("Account no longer exists")
	}
	return user, nil
}

// extractToken pulls the JWT out of the Authorization header, accepting the
// raw-token and query-parameter forms Swagger UI produces.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if queryToken := c.Query("authorization"); queryToken != "" {
			authHeader = queryToken
		} else if queryToken := c.Query("token"); queryToken != "" {
			authHeader = queryToken
		}
	}
	if authHeader == "" {
		return ""
	}

	// Raw JWT without the Bearer prefix
	if strings.Count(authHeader, ".") == 2 && !strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader
	}

	authHeader = strings.Trim(authHeader, "\"'")
	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		return ""
	}
	return tokenString
}
