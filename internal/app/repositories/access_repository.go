package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// AccessRepository handles exam access grant database operations
type AccessRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAccessRepository creates a new AccessRepository
func NewAccessRepository(db *pgxpool.Pool) *AccessRepository {
	return &AccessRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// HasAccess reports whether the user holds a non-expired grant for the exam
func (r *AccessRepository) HasAccess(ctx context.Context, userID, examID uuid.UUID) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("user_exam_access").
		Where(squirrel.And{
			squirrel.Eq{"user_id": userID, "exam_id": examID},
			squirrel.Or{
				squirrel.Eq{"expires_at": nil},
				squirrel.Gt{"expires_at": time.Now()},
			},
		}).
		Limit(1).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build access check query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Str("examID", examID.String()).Msg("Error checking exam access")
		return false, fmt.Errorf("error checking exam access: %w", err)
	}
	return exists, nil
}

// Grant records an access grant. Granting the same exam twice is harmless
// because the (user_id, exam_id) pair is unique and the insert is skipped.
func (r *AccessRepository) Grant(ctx context.Context, access *models.ExamAccess) error {
	if access.ID == uuid.Nil {
		access.ID = uuid.New()
	}
	if access.GrantedAt.IsZero() {
		access.GrantedAt = time.Now()
	}

	sql, args, err := r.sb.Insert("user_exam_access").
		Columns("id", "user_id", "exam_id", "order_id", "granted_at", "expires_at").
		Values(access.ID, access.UserID, access.ExamID, access.OrderID, access.GrantedAt, access.ExpiresAt).
		Suffix("ON CONFLICT (user_id, exam_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build grant access query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", access.UserID.String()).Str("examID", access.ExamID.String()).Msg("Error granting exam access")
		return fmt.Errorf("error granting exam access: %w", err)
	}
	return nil
}

// GetExamIDsForUser returns the exams the user currently holds grants for
func (r *AccessRepository) GetExamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	sql, args, err := r.sb.Select("exam_id").
		From("user_exam_access").
		Where(squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.Or{
				squirrel.Eq{"expires_at": nil},
				squirrel.Gt{"expires_at": time.Now()},
			},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user access query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user access: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan access row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
