package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
	"github.com/emre/sinavmarket/internal/pkg/dberrors"
	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all categories ordered for display
func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "parent_id", "display_order", "created_at").
		From("categories").
		OrderBy("display_order ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying categories")
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "parent_id", "display_order", "created_at").
		From("categories").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	var c models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.DisplayOrder, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("error querying category: %w", err)
	}
	return &c, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()

	sql, args, err := r.sb.Insert("categories").
		Columns("id", "name", "slug", "parent_id", "display_order", "created_at").
		Values(category.ID, category.Name, category.Slug, category.ParentID, category.DisplayOrder, category.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create category query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "categories_slug_key") {
			return apperrors.NewConflictError("category slug already exists")
		}
		logger.Error().Err(err).Str("slug", category.Slug).Msg("Error inserting category")
		return fmt.Errorf("error inserting category: %w", err)
	}

	logger.Info().Str("categoryID", category.ID.String()).Str("slug", category.Slug).Msg("Category created")
	return nil
}
