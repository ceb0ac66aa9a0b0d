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

// ExamRepository handles exam database operations. The answer key and the
// per-question metadata live in jsonb columns and scan straight into the
// model's map fields.
type ExamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const examColumns = "id, name, description, subject, duration_minutes, total_questions, " +
	"answer_key, objective_names, objective_codes, question_subjects, question_tests, " +
	"created_by, is_active, created_at, updated_at"

func scanExam(row pgx.Row) (*models.Exam, error) {
	var e models.Exam
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Subject, &e.DurationMinutes, &e.TotalQuestions,
		&e.AnswerKey, &e.ObjectiveNames, &e.ObjectiveCodes, &e.QuestionSubjects, &e.QuestionTests,
		&e.CreatedBy, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new exam
func (r *ExamRepository) Create(ctx context.Context, q Querier, exam *models.Exam) error {
	if exam.ID == uuid.Nil {
		exam.ID = uuid.New()
	}
	now := time.Now()
	exam.CreatedAt = now
	exam.UpdatedAt = now

	sql, args, err := r.sb.Insert("exams").
		Columns("id", "name", "description", "subject", "duration_minutes", "total_questions",
			"answer_key", "objective_names", "objective_codes", "question_subjects", "question_tests",
			"created_by", "is_active", "created_at", "updated_at").
		Values(exam.ID, exam.Name, exam.Description, exam.Subject, exam.DurationMinutes, exam.TotalQuestions,
			exam.AnswerKey, exam.ObjectiveNames, exam.ObjectiveCodes, exam.QuestionSubjects, exam.QuestionTests,
			exam.CreatedBy, exam.IsActive, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create exam query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("name", exam.Name).Msg("Error inserting exam")
		return fmt.Errorf("error inserting exam: %w", err)
	}

	logger.Info().Str("examID", exam.ID.String()).Int("totalQuestions", exam.TotalQuestions).Msg("Exam created")
	return nil
}

// GetByID retrieves an exam by ID regardless of active flag
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	sql, args, err := r.sb.Select(examColumns).
		From("exams").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get exam query: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamNotFound
		}
		logger.Error().Err(err).Str("examID", id.String()).Msg("Error querying exam")
		return nil, fmt.Errorf("error querying exam: %w", err)
	}
	return exam, nil
}

// GetActiveByID retrieves an exam that is still visible to students
func (r *ExamRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	exam, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exam.IsActive {
		return nil, apperrors.ErrExamNotFound
	}
	return exam, nil
}

// GetAllActive retrieves every active exam, newest first
func (r *ExamRepository) GetAllActive(ctx context.Context) ([]models.Exam, error) {
	sql, args, err := r.sb.Select(examColumns).
		From("exams").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get exams query: %w", err)
	}
	return r.queryExams(ctx, sql, args)
}

// GetActiveByIDs retrieves the active exams among the given IDs, newest first
func (r *ExamRepository) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Exam, error) {
	if len(ids) == 0 {
		return []models.Exam{}, nil
	}
	sql, args, err := r.sb.Select(examColumns).
		From("exams").
		Where(squirrel.And{
			squirrel.Eq{"id": ids},
			squirrel.Eq{"is_active": true},
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get exams by IDs query: %w", err)
	}
	return r.queryExams(ctx, sql, args)
}

func (r *ExamRepository) queryExams(ctx context.Context, sql string, args []interface{}) ([]models.Exam, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying exams")
		return nil, fmt.Errorf("error querying exams: %w", err)
	}
	defer rows.Close()

	exams := []models.Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam row: %w", err)
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// Update applies a partial update built by the service layer
func (r *ExamRepository) Update(ctx context.Context, q Querier, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	sql, args, err := r.sb.Update("exams").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update exam query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("examID", id.String()).Msg("Error updating exam")
		return fmt.Errorf("error updating exam: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrExamNotFound
	}
	return nil
}

// Deactivate soft-deletes an exam so existing sessions keep their reference
func (r *ExamRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.Update(ctx, r.db, id, map[string]interface{}{"is_active": false})
}
