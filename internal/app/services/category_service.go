package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
)

// CategoryService handles storefront category operations
type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// GetAll lists every category ordered for display
func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// GetByID retrieves a single category
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// Create adds a new category
func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:         req.Name,
		Slug:         req.Slug,
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
