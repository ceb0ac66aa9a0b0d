package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/db"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
	"github.com/emre/sinavmarket/internal/pkg/helpers"
	"github.com/emre/sinavmarket/internal/pkg/scoring"
	"github.com/emre/sinavmarket/internal/pkg/validation"
)

// Store interfaces let the state machine be tested without a database.
// The concrete repositories satisfy them.

type sessionStore interface {
	Create(ctx context.Context, session *models.ExamSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSession, error)
	GetStarted(ctx context.Context, examID, studentID uuid.UUID) (*models.ExamSession, error)
	GetByStudent(ctx context.Context, studentID uuid.UUID) ([]models.ExamSession, error)
	SaveAnswers(ctx context.Context, id uuid.UUID, answers map[string]string) error
	GetForUpdate(ctx context.Context, q repositories.Querier, id uuid.UUID) (*models.ExamSession, error)
	Complete(ctx context.Context, q repositories.Querier, id uuid.UUID, answers map[string]string, score int, percentage float64, completedAt time.Time) error
}

type examStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Exam, error)
}

type bookletStore interface {
	GetByCode(ctx context.Context, examID uuid.UUID, code string) (*models.ExamBooklet, error)
}

type accessChecker interface {
	HasAccess(ctx context.Context, user *models.User, examID uuid.UUID) (bool, error)
}

type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// SessionService drives the exam attempt state machine: start, autosave,
// submit. A session belongs to its student; admins may read it.
type SessionService struct {
	tx       txRunner
	sessions sessionStore
	exams    examStore
	booklets bookletStore
	access   accessChecker
}

// NewSessionService creates a new SessionService
func NewSessionService(
	database *db.PostgresDB,
	sessionRepo *repositories.SessionRepository,
	examRepo *repositories.ExamRepository,
	bookletRepo *repositories.BookletRepository,
	entitlement *EntitlementService,
) *SessionService {
	return &SessionService{
		tx:       database,
		sessions: sessionRepo,
		exams:    examRepo,
		booklets: bookletRepo,
		access:   entitlement,
	}
}

// Start begins an attempt, or resumes the student's running one. The second
// return value is true when an existing session was resumed.
func (s *SessionService) Start(ctx context.Context, user *models.User, req *dto.StartSessionRequest) (*models.ExamSession, bool, error) {
	exam, err := s.exams.GetActiveByID(ctx, req.ExamID)
	if err != nil {
		return nil, false, err
	}

	allowed, err := s.access.HasAccess(ctx, user, exam.ID)
	if err != nil {
		return nil, false, err
	}
	if !allowed {
		return nil, false, apperrors.ErrPermissionDenied
	}

	// The requested variant must be a single letter and exist among the
	// exam's booklets
	code := strings.ToUpper(strings.TrimSpace(req.BookletCode))
	if !validation.IsBookletCode(code) {
		return nil, false, apperrors.NewValidationError(fmt.Sprintf("booklet code %q must be a single letter A-E", req.BookletCode))
	}
	if _, err := s.booklets.GetByCode(ctx, exam.ID, code); err != nil {
		return nil, false, err
	}

	if existing, err := s.sessions.GetStarted(ctx, exam.ID, user.ID); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, apperrors.ErrSessionNotFound) {
		return nil, false, err
	}

	session := &models.ExamSession{
		ExamID:         exam.ID,
		StudentID:      user.ID,
		BookletCode:    code,
		StudentAnswers: map[string]string{},
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		// A concurrent start won the race; resume its row
		if errors.Is(err, apperrors.ErrConflict) {
			existing, getErr := s.sessions.GetStarted(ctx, exam.ID, user.ID)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, true, nil
		}
		return nil, false, err
	}
	return session, false, nil
}

// Get retrieves a session, visible only to its student or an admin
func (s *SessionService) Get(ctx context.Context, user *models.User, sessionID uuid.UUID) (*models.ExamSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != user.ID && !user.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	return session, nil
}

// GetMine lists the caller's sessions, newest first
func (s *SessionService) GetMine(ctx context.Context, userID uuid.UUID) ([]models.ExamSession, error) {
	return s.sessions.GetByStudent(ctx, userID)
}

// SaveAnswers replaces the whole answer map of a running session
func (s *SessionService) SaveAnswers(ctx context.Context, user *models.User, sessionID uuid.UUID, answers map[string]string) error {
	session, err := s.Get(ctx, user, sessionID)
	if err != nil {
		return err
	}

	exam, err := s.exams.GetByID(ctx, session.ExamID)
	if err != nil {
		return err
	}

	normalized, err := normalizeAnswers(answers, exam.TotalQuestions)
	if err != nil {
		return err
	}
	return s.sessions.SaveAnswers(ctx, sessionID, normalized)
}

// Submit freezes the session and scores it. The whole operation runs under
// a row lock so a resubmit or racing autosave cannot alter the result.
func (s *SessionService) Submit(ctx context.Context, user *models.User, sessionID uuid.UUID, answers map[string]string) (*dto.ExamResultResponse, error) {
	var result *dto.ExamResultResponse

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.sessions.GetForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session.StudentID != user.ID && !user.IsAdmin() {
			return apperrors.ErrPermissionDenied
		}
		if session.Status != models.SessionStarted {
			return apperrors.ErrSessionCompleted
		}

		exam, err := s.exams.GetByID(ctx, session.ExamID)
		if err != nil {
			return err
		}

		// Answers sent with the submit replace the autosaved ones
		final := session.StudentAnswers
		if answers != nil {
			final, err = normalizeAnswers(answers, exam.TotalQuestions)
			if err != nil {
				return err
			}
		}

		summary := scoring.Summarize(exam.TotalQuestions, exam.AnswerKey, final)
		completedAt := time.Now()
		if err := s.sessions.Complete(ctx, tx, session.ID, final, summary.Correct, summary.Percentage, completedAt); err != nil {
			return err
		}

		session.StudentAnswers = final
		session.Score = &summary.Correct
		session.Percentage = &summary.Percentage
		session.Status = models.SessionCompleted
		session.CompletedAt = &completedAt

		result = &dto.ExamResultResponse{
			Session:          session,
			Exam:             exam,
			CorrectAnswers:   summary.Correct,
			IncorrectAnswers: summary.Incorrect,
			EmptyAnswers:     summary.Empty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Report computes the analytics view over the session's current answers
func (s *SessionService) Report(ctx context.Context, user *models.User, sessionID uuid.UUID) (*dto.SessionReportResponse, error) {
	session, err := s.Get(ctx, user, sessionID)
	if err != nil {
		return nil, err
	}

	exam, err := s.exams.GetByID(ctx, session.ExamID)
	if err != nil {
		return nil, err
	}

	// Running sessions report the time left on the clock
	remaining := 0
	if session.Status == models.SessionStarted {
		remaining = helpers.RemainingSeconds(time.Now(), session.StartedAt, exam.DurationMinutes)
	}

	return &dto.SessionReportResponse{
		Session:          session,
		ExamName:         exam.Name,
		RemainingSeconds: remaining,
		Summary:          scoring.Summarize(exam.TotalQuestions, exam.AnswerKey, session.StudentAnswers),
		ByTest: scoring.ByTest(exam.TotalQuestions, exam.AnswerKey, session.StudentAnswers,
			exam.QuestionTests),
		ByObjective: scoring.ByObjective(exam.TotalQuestions, exam.AnswerKey, session.StudentAnswers,
			exam.QuestionSubjects, exam.ObjectiveCodes, exam.ObjectiveNames),
	}, nil
}

// normalizeAnswers upcases and validates a submitted answer map. Keys must
// be canonical numbers within range, values single letters A-E. Blank
// values drop out, which is how a student clears a mark.
func normalizeAnswers(answers map[string]string, totalQuestions int) (map[string]string, error) {
	normalized := make(map[string]string, len(answers))
	for q, answer := range answers {
		n, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil || n < 1 || n > totalQuestions {
			return nil, apperrors.NewValidationError(fmt.Sprintf("question %q is not a valid question number", q))
		}

		letter := strings.ToUpper(strings.TrimSpace(answer))
		if letter == "" {
			continue
		}
		if !validation.IsAnswerLetter(letter) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("answer for question %d must be a letter A-E", n))
		}
		normalized[strconv.Itoa(n)] = letter
	}
	return normalized, nil
}
