package dto

import (
	"github.com/google/uuid"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/pkg/scoring"
)

// StartSessionRequest begins (or resumes) an attempt on an exam
type StartSessionRequest struct {
	ExamID      uuid.UUID `json:"examId" binding:"required"`
	BookletCode string    `json:"bookletType" binding:"required,len=1,alpha"`
}

// SaveAnswersRequest replaces the whole answer map of a running session
type SaveAnswersRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// SubmitSessionRequest carries the final answers at submission
type SubmitSessionRequest struct {
	StudentAnswers map[string]string `json:"studentAnswers"`
}

// ExamResultResponse is returned by submit: the frozen session, the exam it
// was taken against and the raw counts.
type ExamResultResponse struct {
	Session          *models.ExamSession `json:"session"`
	Exam             *models.Exam        `json:"exam"`
	CorrectAnswers   int                 `json:"correctAnswers"`
	IncorrectAnswers int                 `json:"incorrectAnswers"`
	EmptyAnswers     int                 `json:"emptyAnswers"`
}

// SessionReportResponse is the analytics view of a session. Running sessions
// carry the seconds left on the clock, completed ones report zero.
type SessionReportResponse struct {
	Session          *models.ExamSession         `json:"session"`
	ExamName         string                      `json:"examName"`
	RemainingSeconds int                         `json:"remainingSeconds"`
	Summary          scoring.Summary             `json:"summary"`
	ByTest           []scoring.TestBreakdown     `json:"byTest"`
	ByObjective      []scoring.SubjectObjectives `json:"byObjective"`
}
