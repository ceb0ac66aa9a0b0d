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

// ProductRepository handles product database operations
type ProductRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const productColumns = "id, name, slug, description, price, category_id, is_active, stock, created_at, updated_at"

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CategoryID,
		&p.IsActive, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll retrieves active products with pagination and optional category filter
func (r *ProductRepository) GetAll(ctx context.Context, categoryID *uuid.UUID, offset uint64, limit int) ([]models.Product, int64, error) {
	where := squirrel.And{squirrel.Eq{"is_active": true}}
	if categoryID != nil {
		where = append(where, squirrel.Eq{"category_id": *categoryID})
	}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").From("products").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count products query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if total == 0 {
		return []models.Product{}, 0, nil
	}

	sql, args, err := r.sb.Select(productColumns).
		From("products").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build get products query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying products")
		return nil, 0, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	sql, args, err := r.sb.Select(productColumns).
		From("products").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get product query: %w", err)
	}

	product, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		logger.Error().Err(err).Str("productID", id.String()).Msg("Error querying product")
		return nil, fmt.Errorf("error querying product: %w", err)
	}
	return product, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsActive = true

	sql, args, err := r.sb.Insert("products").
		Columns("id", "name", "slug", "description", "price", "category_id", "is_active", "stock", "created_at", "updated_at").
		Values(product.ID, product.Name, product.Slug, product.Description, product.Price,
			product.CategoryID, product.IsActive, product.Stock, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create product query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "products_slug_key") {
			return apperrors.NewConflictError("product slug already exists")
		}
		logger.Error().Err(err).Str("slug", product.Slug).Msg("Error inserting product")
		return fmt.Errorf("error inserting product: %w", err)
	}

	logger.Info().Str("productID", product.ID.String()).Msg("Product created")
	return nil
}

// Update applies a partial update built by the service layer
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	sql, args, err := r.sb.Update("products").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update product query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("productID", id.String()).Msg("Error updating product")
		return fmt.Errorf("error updating product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// Deactivate soft-deletes a product
func (r *ProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}
