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
	"github.com/emre/sinavmarket/internal/pkg/helpers"
)

// ProductService handles product operations, including the links that decide
// which exams a purchase unlocks.
type ProductService struct {
	db              *db.PostgresDB
	productRepo     *repositories.ProductRepository
	productExamRepo *repositories.ProductExamRepository
	examRepo        *repositories.ExamRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	database *db.PostgresDB,
	productRepo *repositories.ProductRepository,
	productExamRepo *repositories.ProductExamRepository,
	examRepo *repositories.ExamRepository,
) *ProductService {
	return &ProductService{
		db:              database,
		productRepo:     productRepo,
		productExamRepo: productExamRepo,
		examRepo:        examRepo,
	}
}

// GetAll lists products with pagination, optionally filtered by category
func (s *ProductService) GetAll(ctx context.Context, categoryID *uuid.UUID, page, size int) ([]models.Product, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	products, total, err := s.productRepo.GetAll(ctx, categoryID, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return products, helpers.NewPaginationInfo(total, page, size), nil
}

// GetByID retrieves a single product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// Create adds a new product
func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Stock:       req.Stock,
		IsActive:    true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the non-nil fields of the request
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

// Deactivate soft-deletes a product
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Deactivate(ctx, id)
}

// AssignExams replaces the set of exams the product unlocks
func (s *ProductService) AssignExams(ctx context.Context, productID uuid.UUID, examIDs []uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}

	// Every referenced exam must exist and be active
	exams, err := s.examRepo.GetActiveByIDs(ctx, examIDs)
	if err != nil {
		return err
	}
	if len(exams) != len(uniqueIDs(examIDs)) {
		return apperrors.NewValidationError("one or more exams do not exist or are inactive")
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.productExamRepo.Replace(ctx, tx, productID, examIDs); err != nil {
			return fmt.Errorf("error replacing product exams: %w", err)
		}
		return nil
	})
}

// GetExams lists the active exams linked to the product
func (s *ProductService) GetExams(ctx context.Context, productID uuid.UUID) ([]models.Exam, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	examIDs, err := s.productExamRepo.GetExamIDs(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.examRepo.GetActiveByIDs(ctx, examIDs)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	out := []uuid.UUID{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
