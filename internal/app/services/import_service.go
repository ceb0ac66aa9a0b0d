package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/db"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
	"github.com/emre/sinavmarket/internal/pkg/booklet"
	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// ImportService turns publisher spreadsheets into exam definitions. Each
// import runs inside one transaction so a half-parsed sheet never leaves a
// partial exam behind.
type ImportService struct {
	db          *db.PostgresDB
	examRepo    *repositories.ExamRepository
	bookletRepo *repositories.BookletRepository
}

// NewImportService creates a new ImportService
func NewImportService(
	database *db.PostgresDB,
	examRepo *repositories.ExamRepository,
	bookletRepo *repositories.BookletRepository,
) *ImportService {
	return &ImportService{
		db:          database,
		examRepo:    examRepo,
		bookletRepo: bookletRepo,
	}
}

// ImportExam parses a full answer key sheet and creates the exam with all
// of its booklet variants.
func (s *ImportService) ImportExam(ctx context.Context, adminID uuid.UUID, req *dto.UploadExamRequest, file io.Reader) (*dto.UploadExamResponse, error) {
	rows, err := booklet.ReadRows(file)
	if err != nil {
		return nil, apperrors.NewValidationError("file is not a readable xlsx spreadsheet")
	}

	result, err := booklet.Parse(rows)
	if err != nil {
		if errors.Is(err, booklet.ErrEmptySheet) || errors.Is(err, booklet.ErrNoQuestions) {
			return nil, apperrors.NewValidationError(err.Error())
		}
		return nil, fmt.Errorf("error parsing spreadsheet: %w", err)
	}

	exam := &models.Exam{
		Name:             req.Name,
		Description:      req.Description,
		DurationMinutes:  req.DurationMinutes,
		TotalQuestions:   result.TotalQuestions,
		AnswerKey:        result.AnswerKey,
		ObjectiveNames:   result.ObjectiveNames,
		ObjectiveCodes:   result.ObjectiveCodes,
		QuestionSubjects: result.QuestionSubjects,
		QuestionTests:    result.QuestionTests,
		CreatedBy:        &adminID,
		IsActive:         true,
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.examRepo.Create(ctx, tx, exam); err != nil {
			return err
		}
		for _, variant := range result.Booklets {
			b := &models.ExamBooklet{
				ExamID:        exam.ID,
				BookletCode:   variant.Code,
				QuestionOrder: variant.QuestionOrder,
			}
			if err := s.bookletRepo.Upsert(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(result.Booklets))
	for _, variant := range result.Booklets {
		codes = append(codes, variant.Code)
	}

	logger.Info().
		Str("examID", exam.ID.String()).
		Int("totalQuestions", result.TotalQuestions).
		Strs("booklets", codes).
		Msg("Exam imported from spreadsheet")

	return &dto.UploadExamResponse{
		ExamID:         exam.ID,
		TotalQuestions: result.TotalQuestions,
		Booklets:       codes,
		AnswerCount:    len(result.AnswerKey),
	}, nil
}

// ReplaceAnswerKey parses a plain three-column key sheet and replaces the
// exam's answer key, upserting the one booklet the upload names.
func (s *ImportService) ReplaceAnswerKey(ctx context.Context, examID uuid.UUID, bookletCode string, file io.Reader) (*dto.UploadAnswerKeyResponse, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	rows, err := booklet.ReadRows(file)
	if err != nil {
		return nil, apperrors.NewValidationError("file is not a readable xlsx spreadsheet")
	}

	answerKey, objectives, err := booklet.ParseSimpleKey(rows)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	// The booklet lists the question numbers of the new key in numeric order
	order := make([]int, 0, len(answerKey))
	for q := range answerKey {
		n, err := strconv.Atoi(q)
		if err != nil {
			continue
		}
		order = append(order, n)
	}
	sort.Ints(order)

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		fields := map[string]interface{}{
			"answer_key":      answerKey,
			"objective_names": objectives,
			"total_questions": len(answerKey),
		}
		if err := s.examRepo.Update(ctx, tx, exam.ID, fields); err != nil {
			return err
		}
		return s.bookletRepo.Upsert(ctx, tx, &models.ExamBooklet{
			ExamID:        exam.ID,
			BookletCode:   bookletCode,
			QuestionOrder: order,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("examID", exam.ID.String()).
		Str("bookletCode", bookletCode).
		Int("answers", len(answerKey)).
		Msg("Answer key replaced")

	return &dto.UploadAnswerKeyResponse{
		AnswerCount:    len(answerKey),
		ObjectiveCount: len(objectives),
	}, nil
}
