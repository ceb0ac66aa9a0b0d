package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// EntitlementService decides which exams a user may open. Admins bypass the
// grant table entirely; everyone else needs a non-expired grant row.
type EntitlementService struct {
	accessRepo      *repositories.AccessRepository
	productExamRepo *repositories.ProductExamRepository
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(
	accessRepo *repositories.AccessRepository,
	productExamRepo *repositories.ProductExamRepository,
) *EntitlementService {
	return &EntitlementService{
		accessRepo:      accessRepo,
		productExamRepo: productExamRepo,
	}
}

// HasAccess reports whether the user may open the exam
func (s *EntitlementService) HasAccess(ctx context.Context, user *models.User, examID uuid.UUID) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}
	return s.accessRepo.HasAccess(ctx, user.ID, examID)
}

// Grant records an entitlement for a user, optionally tied to an order
func (s *EntitlementService) Grant(ctx context.Context, userID, examID uuid.UUID, orderID *uuid.UUID) error {
	return s.accessRepo.Grant(ctx, &models.ExamAccess{
		UserID:  userID,
		ExamID:  examID,
		OrderID: orderID,
	})
}

// GrantForOrder grants the buyer every exam linked to the order's products.
// A failed grant is logged and counted but never aborts the remaining ones;
// the order status change already happened and must stand.
func (s *EntitlementService) GrantForOrder(ctx context.Context, order *models.Order) (granted, failed int) {
	for _, item := range order.Items {
		examIDs, err := s.productExamRepo.GetExamIDs(ctx, item.ProductID)
		if err != nil {
			logger.Error().Err(err).
				Str("orderID", order.ID.String()).
				Str("productID", item.ProductID.String()).
				Msg("Failed to resolve exams for order item")
			failed++
			continue
		}

		for _, examID := range examIDs {
			if err := s.Grant(ctx, order.UserID, examID, &order.ID); err != nil {
				logger.Error().Err(err).
					Str("orderID", order.ID.String()).
					Str("examID", examID.String()).
					Msg("Failed to grant exam access for order")
				failed++
				continue
			}
			granted++
		}
	}

	logger.Info().
		Str("orderID", order.ID.String()).
		Int("granted", granted).
		Int("failed", failed).
		Msg("Entitlements processed for confirmed order")
	return granted, failed
}

// AccessibleExamIDs lists the exams the user currently holds grants for
func (s *EntitlementService) AccessibleExamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.accessRepo.GetExamIDsForUser(ctx, userID)
}
