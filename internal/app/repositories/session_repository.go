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

// startedSessionIndex is the partial unique index that allows at most one
// started session per (exam, student) pair.
const startedSessionIndex = "exam_sessions_one_started_idx"

// SessionRepository handles exam session database operations
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const sessionColumns = "id, exam_id, student_id, booklet_code, student_answers, score, percentage, " +
	"status, started_at, completed_at, created_at"

func scanSession(row pgx.Row) (*models.ExamSession, error) {
	var s models.ExamSession
	err := row.Scan(&s.ID, &s.ExamID, &s.StudentID, &s.BookletCode, &s.StudentAnswers,
		&s.Score, &s.Percentage, &s.Status, &s.StartedAt, &s.CompletedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new started session. A concurrent start of the same exam
// by the same student trips the partial unique index and comes back as a
// conflict; callers re-read the surviving row.
func (r *SessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()
	session.Status = models.SessionStarted
	session.StartedAt = now
	session.CreatedAt = now
	if session.StudentAnswers == nil {
		session.StudentAnswers = map[string]string{}
	}

	sql, args, err := r.sb.Insert("exam_sessions").
		Columns("id", "exam_id", "student_id", "booklet_code", "student_answers",
			"status", "started_at", "created_at").
		Values(session.ID, session.ExamID, session.StudentID, session.BookletCode, session.StudentAnswers,
			session.Status, session.StartedAt, session.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, startedSessionIndex) {
			return apperrors.ErrConflict
		}
		logger.Error().Err(err).Str("examID", session.ExamID.String()).Str("studentID", session.StudentID.String()).Msg("Error inserting session")
		return fmt.Errorf("error inserting session: %w", err)
	}

	logger.Info().Str("sessionID", session.ID.String()).Str("examID", session.ExamID.String()).Msg("Exam session started")
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSession, error) {
	sql, args, err := r.sb.Select(sessionColumns).
		From("exam_sessions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	session, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Str("sessionID", id.String()).Msg("Error querying session")
		return nil, fmt.Errorf("error querying session: %w", err)
	}
	return session, nil
}

// GetStarted retrieves the student's running session for an exam, if any
func (r *SessionRepository) GetStarted(ctx context.Context, examID, studentID uuid.UUID) (*models.ExamSession, error) {
	sql, args, err := r.sb.Select(sessionColumns).
		From("exam_sessions").
		Where(squirrel.Eq{
			"exam_id":    examID,
			"student_id": studentID,
			"status":     models.SessionStarted,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get started session query: %w", err)
	}

	session, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error querying started session: %w", err)
	}
	return session, nil
}

// GetByStudent retrieves a student's sessions, newest first
func (r *SessionRepository) GetByStudent(ctx context.Context, studentID uuid.UUID) ([]models.ExamSession, error) {
	sql, args, err := r.sb.Select(sessionColumns).
		From("exam_sessions").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("started_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying student sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ExamSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// SaveAnswers overwrites the whole answer map of a running session. The
// update is conditional on status so a submit racing ahead of an autosave
// can never resurrect answers on a completed session.
func (r *SessionRepository) SaveAnswers(ctx context.Context, id uuid.UUID, answers map[string]string) error {
	sql, args, err := r.sb.Update("exam_sessions").
		Set("student_answers", answers).
		Where(squirrel.Eq{"id": id, "status": models.SessionStarted}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save answers query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id.String()).Msg("Error saving answers")
		return fmt.Errorf("error saving answers: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM exam_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("error checking session existence: %w", err)
		}
		if exists {
			return apperrors.ErrSessionCompleted
		}
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// GetForUpdate loads a session with a row lock inside a transaction
func (r *SessionRepository) GetForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.ExamSession, error) {
	sql, args, err := r.sb.Select(sessionColumns).
		From("exam_sessions").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock session query: %w", err)
	}

	session, err := scanSession(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error locking session: %w", err)
	}
	return session, nil
}

// Complete freezes a session with its final answers and score. Like
// SaveAnswers it is conditional on the started status.
func (r *SessionRepository) Complete(ctx context.Context, q Querier, id uuid.UUID, answers map[string]string, score int, percentage float64, completedAt time.Time) error {
	sql, args, err := r.sb.Update("exam_sessions").
		SetMap(map[string]interface{}{
			"student_answers": answers,
			"score":           score,
			"percentage":      percentage,
			"status":          models.SessionCompleted,
			"completed_at":    completedAt,
		}).
		Where(squirrel.Eq{"id": id, "status": models.SessionStarted}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build complete session query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id.String()).Msg("Error completing session")
		return fmt.Errorf("error completing session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionCompleted
	}

	logger.Info().Str("sessionID", id.String()).Int("score", score).Msg("Exam session completed")
	return nil
}
