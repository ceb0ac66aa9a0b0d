package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/services"
	"github.com/emre/sinavmarket/internal/middleware"
	"github.com/emre/sinavmarket/internal/pkg/helpers"
)

// ProductController handles product endpoints, including the links that
// decide which exams a product unlocks.
type ProductController struct {
	productService *services.ProductService
}

// NewProductController creates a new ProductController
func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetAll lists products with pagination
// @Summary List products
// @Description Retrieves products with pagination, optionally filtered by category
// @Tags products
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param categoryId query string false "Filter by category UUID"
// @Success 200 {object} dto.APIResponse{data=[]models.Product} "Products"
// @Failure 400 {object} dto.ErrorResponse "Invalid category ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products [get]
func (c *ProductController) GetAll(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	var categoryID *uuid.UUID
	if raw := ctx.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid categoryId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		categoryID = &id
	}

	products, pagination, err := c.productService.GetAll(ctx, categoryID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(products, pagination))
}

// GetByID retrieves one product
// @Summary Get product by ID
// @Description Retrieves a single product
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Product"
// @Failure 400 {object} dto.ErrorResponse "Invalid product ID"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products/{id} [get]
func (c *ProductController) GetByID(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	product, err := c.productService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(product))
}

// Create adds a product
// @Summary Create a product
// @Description Creates a new product (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "Product information"
// @Success 201 {object} dto.APIResponse{data=models.Product} "Product created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Slug already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	product, err := c.productService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(product))
}

// Update modifies a product
// @Summary Update a product
// @Description Updates the provided product fields (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product UUID"
// @Param request body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Product updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	product, err := c.productService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(product))
}

// Delete deactivates a product
// @Summary Delete a product
// @Description Soft-deletes a product so existing orders keep their reference (admin only)
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Product deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid product ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products/{id} [delete]
func (c *ProductController) Delete(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.productService.Deactivate(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Product deleted"}))
}

// GetExams lists the exams a product unlocks
// @Summary List product exams
// @Description Retrieves the active exams linked to a product
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} dto.APIResponse{data=[]models.Exam} "Linked exams"
// @Failure 400 {object} dto.ErrorResponse "Invalid product ID"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products/{id}/exams [get]
func (c *ProductController) GetExams(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	exams, err := c.productService.GetExams(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exams))
}

// AssignExams replaces the exams a product unlocks
// @Summary Assign product exams
// @Description Replaces the set of exams the product unlocks (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product UUID"
// @Param request body dto.AssignProductExamsRequest true "Exam IDs"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Exams assigned"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /products/{id}/exams [put]
func (c *ProductController) AssignExams(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignProductExamsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	if err := c.productService.AssignExams(ctx, id, req.ExamIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Exams assigned"}))
}
