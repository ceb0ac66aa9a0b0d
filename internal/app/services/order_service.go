package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/db"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
)

// OrderService handles order placement and the status transitions that
// trigger exam entitlements.
type OrderService struct {
	db          *db.PostgresDB
	orderRepo   *repositories.OrderRepository
	productRepo *repositories.ProductRepository
	entitlement *EntitlementService
}

// NewOrderService creates a new OrderService
func NewOrderService(
	database *db.PostgresDB,
	orderRepo *repositories.OrderRepository,
	productRepo *repositories.ProductRepository,
	entitlement *EntitlementService,
) *OrderService {
	return &OrderService{
		db:          database,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		entitlement: entitlement,
	}
}

// Create places an order for the user. Prices come from the product table at
// order time, never from the client.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		UserID: userID,
		Status: models.OrderPending,
	}

	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, apperrors.NewValidationError(fmt.Sprintf("product %s is not available", product.Slug))
		}

		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		order.TotalAmount += product.Price * float64(item.Quantity)
	}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retrieves an order, visible only to its owner or an admin
func (s *OrderService) GetByID(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID && !user.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	return order, nil
}

// GetForUser lists the user's orders, newest first
func (s *OrderService) GetForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orderRepo.GetByUser(ctx, userID)
}

// UpdateStatus moves an order to a new status. Confirming an order grants
// the buyer the exams behind its products; grant failures are reported in
// the response but do not undo the status change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*dto.OrderStatusResponse, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.NewValidationError("unknown order status")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	resp := &dto.OrderStatusResponse{
		OrderID: orderID,
		Status:  string(status),
	}
	if status == models.OrderConfirmed {
		resp.GrantedExams, resp.FailedGrants = s.entitlement.GrantForOrder(ctx, order)
	}
	return resp, nil
}
