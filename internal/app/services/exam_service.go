package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/db"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
	"github.com/emre/sinavmarket/internal/pkg/booklet"
	"github.com/emre/sinavmarket/internal/pkg/validation"
)

// ExamService handles exam definitions and who gets to see them
type ExamService struct {
	db          *db.PostgresDB
	examRepo    *repositories.ExamRepository
	bookletRepo *repositories.BookletRepository
	entitlement *EntitlementService
}

// NewExamService creates a new ExamService
func NewExamService(
	database *db.PostgresDB,
	examRepo *repositories.ExamRepository,
	bookletRepo *repositories.BookletRepository,
	entitlement *EntitlementService,
) *ExamService {
	return &ExamService{
		db:          database,
		examRepo:    examRepo,
		bookletRepo: bookletRepo,
		entitlement: entitlement,
	}
}

// Create stores a structured exam definition supplied by an admin. The
// answer key must cover exactly the canonical numbers 1..totalQuestions.
func (s *ExamService) Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateExamRequest) (*models.Exam, error) {
	if len(req.AnswerKey) != req.TotalQuestions {
		return nil, apperrors.NewValidationError("answer key must cover every question")
	}
	for q, answer := range req.AnswerKey {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > req.TotalQuestions {
			return nil, apperrors.NewValidationError(fmt.Sprintf("answer key question %q is out of range", q))
		}
		if !validation.IsAnswerLetter(answer) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("answer for question %s must be a letter A-E", q))
		}
	}

	exam := &models.Exam{
		Name:             req.Name,
		Description:      req.Description,
		Subject:          req.Subject,
		DurationMinutes:  req.DurationMinutes,
		TotalQuestions:   req.TotalQuestions,
		AnswerKey:        req.AnswerKey,
		ObjectiveNames:   emptyIfNil(req.ObjectiveNames),
		ObjectiveCodes:   emptyIfNil(req.ObjectiveCodes),
		QuestionSubjects: emptyIfNil(req.QuestionSubjects),
		QuestionTests:    emptyIfNil(req.QuestionTests),
		CreatedBy:        &adminID,
		IsActive:         true,
	}
	// A structured exam carries no printed variants, so an identity booklet
	// "A" is synthesized. Without it no session could ever name a booklet.
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.examRepo.Create(ctx, tx, exam); err != nil {
			return err
		}
		return s.bookletRepo.Upsert(ctx, tx, &models.ExamBooklet{
			ExamID:        exam.ID,
			BookletCode:   "A",
			QuestionOrder: booklet.IdentityOrder(exam.TotalQuestions),
		})
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// Update applies the non-nil fields of the request
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateExamRequest) (*models.Exam, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Subject != nil {
		fields["subject"] = *req.Subject
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if err := s.examRepo.Update(ctx, s.db.Pool, id, fields); err != nil {
		return nil, err
	}
	return s.examRepo.GetByID(ctx, id)
}

// Deactivate soft-deletes an exam; existing sessions keep their reference
func (s *ExamService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.examRepo.Deactivate(ctx, id)
}

// List returns the exams visible to the caller: admins see every active
// exam, users the ones they hold grants for, anonymous callers none.
func (s *ExamService) List(ctx context.Context, user *models.User) ([]models.Exam, error) {
	if user == nil {
		return []models.Exam{}, nil
	}
	if user.IsAdmin() {
		return s.examRepo.GetAllActive(ctx)
	}

	examIDs, err := s.entitlement.AccessibleExamIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.examRepo.GetActiveByIDs(ctx, examIDs)
}

// Get retrieves one exam with its booklets. Missing or inactive exams are
// not found; an exam the user is not entitled to is denied, not hidden.
func (s *ExamService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*models.Exam, error) {
	exam, err := s.examRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.entitlement.HasAccess(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.ErrPermissionDenied
	}

	booklets, err := s.bookletRepo.GetByExam(ctx, id)
	if err != nil {
		return nil, err
	}
	exam.Booklets = booklets
	return exam, nil
}

func emptyIfNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
