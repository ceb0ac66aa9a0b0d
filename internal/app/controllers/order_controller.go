package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/services"
	"github.com/emre/sinavmarket/internal/middleware"
)

// OrderController handles order endpoints
type OrderController struct {
	orderService *services.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// Create places an order
// @Summary Place an order
// @Description Creates an order for the authenticated user; prices are read from the product table
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOrderRequest true "Order items"
// @Success 201 {object} dto.APIResponse{data=models.Order} "Order created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /orders [post]
func (c *OrderController) Create(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	order, err := c.orderService.Create(ctx, user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(order))
}

// GetMine lists the caller's orders
// @Summary List own orders
// @Description Retrieves the authenticated user's orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Order} "Orders"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /orders [get]
func (c *OrderController) GetMine(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	orders, err := c.orderService.GetForUser(ctx, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(orders))
}

// GetByID retrieves one order
// @Summary Get order by ID
// @Description Retrieves an order; visible only to its owner or an admin
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order UUID"
// @Success 200 {object} dto.APIResponse{data=models.Order} "Order"
// @Failure 400 {object} dto.ErrorResponse "Invalid order ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Order not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /orders/{id} [get]
func (c *OrderController) GetByID(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	order, err := c.orderService.GetByID(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(order))
}

// UpdateStatus moves an order to a new status
// @Summary Update order status
// @Description Changes an order's status (admin only). Confirming grants the buyer the exams behind the order's products.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order UUID"
// @Param request body dto.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.OrderStatusResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Order not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /orders/{id}/status [put]
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	result, err := c.orderService.UpdateStatus(ctx, id, models.OrderStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
