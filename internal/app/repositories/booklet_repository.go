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
	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// BookletRepository handles exam booklet database operations
type BookletRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBookletRepository creates a new BookletRepository
func NewBookletRepository(db *pgxpool.Pool) *BookletRepository {
	return &BookletRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts a booklet or replaces its question order when the
// (exam_id, booklet_code) pair already exists. Re-imports therefore update
// variants in place instead of duplicating them.
func (r *BookletRepository) Upsert(ctx context.Context, q Querier, b *models.ExamBooklet) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("exam_booklets").
		Columns("id", "exam_id", "booklet_code", "question_order", "created_at").
		Values(b.ID, b.ExamID, b.BookletCode, b.QuestionOrder, time.Now()).
		Suffix("ON CONFLICT (exam_id, booklet_code) DO UPDATE SET question_order = EXCLUDED.question_order").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert booklet query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("examID", b.ExamID.String()).Str("bookletCode", b.BookletCode).Msg("Error upserting booklet")
		return fmt.Errorf("error upserting booklet: %w", err)
	}
	return nil
}

// GetByExam retrieves all booklets of an exam ordered by code
func (r *BookletRepository) GetByExam(ctx context.Context, examID uuid.UUID) ([]models.ExamBooklet, error) {
	sql, args, err := r.sb.Select("id", "exam_id", "booklet_code", "question_order", "created_at").
		From("exam_booklets").
		Where(squirrel.Eq{"exam_id": examID}).
		OrderBy("booklet_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get booklets query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying booklets: %w", err)
	}
	defer rows.Close()

	booklets := []models.ExamBooklet{}
	for rows.Next() {
		var b models.ExamBooklet
		if err := rows.Scan(&b.ID, &b.ExamID, &b.BookletCode, &b.QuestionOrder, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booklet row: %w", err)
		}
		booklets = append(booklets, b)
	}
	return booklets, rows.Err()
}

// GetByCode retrieves one booklet of an exam by its variant code
func (r *BookletRepository) GetByCode(ctx context.Context, examID uuid.UUID, code string) (*models.ExamBooklet, error) {
	sql, args, err := r.sb.Select("id", "exam_id", "booklet_code", "question_order", "created_at").
		From("exam_booklets").
		Where(squirrel.Eq{"exam_id": examID, "booklet_code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get booklet query: %w", err)
	}

	var b models.ExamBooklet
	err = r.db.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.ExamID, &b.BookletCode, &b.QuestionOrder, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUnknownBooklet
		}
		return nil, fmt.Errorf("error querying booklet: %w", err)
	}
	return &b, nil
}
