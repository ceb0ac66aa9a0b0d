package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/services"
	"github.com/emre/sinavmarket/internal/middleware"
)

// CategoryController handles storefront category endpoints
type CategoryController struct {
	categoryService *services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

// GetAll lists every category
// @Summary List categories
// @Description Retrieves all categories ordered for display
// @Tags categories
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Category} "Categories"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [get]
func (c *CategoryController) GetAll(ctx *gin.Context) {
	categories, err := c.categoryService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}

// Create adds a category
// @Summary Create a category
// @Description Creates a new category (admin only)
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category information"
// @Success 201 {object} dto.APIResponse{data=models.Category} "Category created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Slug already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	category, err := c.categoryService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(category))
}
