package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emre/sinavmarket/internal/app/models/dto"
)

// Controllers bundles every controller instance for route registration
type Controllers struct {
	Auth     *AuthController
	Category *CategoryController
	Product  *ProductController
	Order    *OrderController
	Exam     *ExamController
	Session  *SessionController
}

// parseUUIDParam reads a uuid path parameter, answering 400 itself when the
// value does not parse. The second return value reports success.
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSONError answers 400 with the binding failure details. Validator
// errors get a readable per-field message, anything else (malformed JSON)
// falls back to the raw error text.
func bindJSONError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
