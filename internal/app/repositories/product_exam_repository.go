package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// ProductExamRepository manages which exams a product unlocks
type ProductExamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProductExamRepository creates a new ProductExamRepository
func NewProductExamRepository(db *pgxpool.Pool) *ProductExamRepository {
	return &ProductExamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetExamIDs returns the exams linked to a product
func (r *ProductExamRepository) GetExamIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	sql, args, err := r.sb.Select("exam_id").
		From("product_exams").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get product exams query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying product exams: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product exam row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Replace swaps the full set of exams linked to a product
func (r *ProductExamRepository) Replace(ctx context.Context, q Querier, productID uuid.UUID, examIDs []uuid.UUID) error {
	delSql, delArgs, err := r.sb.Delete("product_exams").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete product exams query: %w", err)
	}
	if _, err := q.Exec(ctx, delSql, delArgs...); err != nil {
		return fmt.Errorf("error clearing product exams: %w", err)
	}

	for _, examID := range examIDs {
		insSql, insArgs, err := r.sb.Insert("product_exams").
			Columns("id", "product_id", "exam_id").
			Values(uuid.New(), productID, examID).
			Suffix("ON CONFLICT (product_id, exam_id) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert product exam query: %w", err)
		}
		if _, err := q.Exec(ctx, insSql, insArgs...); err != nil {
			return fmt.Errorf("error linking exam to product: %w", err)
		}
	}

	logger.Info().Str("productID", productID.String()).Int("exams", len(examIDs)).Msg("Product exam links replaced")
	return nil
}
