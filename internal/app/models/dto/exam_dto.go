package dto

import (
	"github.com/google/uuid"
)

// CreateExamRequest represents a structured exam definition, answer key
// included, for admins creating an exam without a spreadsheet.
type CreateExamRequest struct {
	Name             string            `json:"name" binding:"required,min=2,max=200"`
	Description      string            `json:"description"`
	Subject          string            `json:"subject"`
	DurationMinutes  int               `json:"durationMinutes" binding:"required,min=1"`
	TotalQuestions   int               `json:"totalQuestions" binding:"required,min=1"`
	AnswerKey        map[string]string `json:"answerKey" binding:"required"`
	ObjectiveNames   map[string]string `json:"objectiveNames"`
	ObjectiveCodes   map[string]string `json:"objectiveCodes"`
	QuestionSubjects map[string]string `json:"questionSubjects"`
	QuestionTests    map[string]string `json:"questionTests"`
}

// UpdateExamRequest updates exam fields; nil fields are left untouched
type UpdateExamRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=200"`
	Description     *string `json:"description"`
	Subject         *string `json:"subject"`
	DurationMinutes *int    `json:"durationMinutes" binding:"omitempty,min=1"`
	IsActive        *bool   `json:"isActive"`
}

// UploadExamRequest carries the form fields next to the spreadsheet on
// POST /exams/upload
type UploadExamRequest struct {
	Name            string `form:"name" binding:"required,min=2,max=200"`
	DurationMinutes int    `form:"durationMinutes" binding:"required,min=1"`
	Description     string `form:"description"`
}

// UploadExamResponse summarizes an imported exam
type UploadExamResponse struct {
	ExamID         uuid.UUID `json:"examId"`
	TotalQuestions int       `json:"totalQuestions"`
	Booklets       []string  `json:"booklets"`
	AnswerCount    int       `json:"answerCount"`
}

// UploadAnswerKeyRequest carries the form fields of the plain answer key
// re-upload into an existing exam
type UploadAnswerKeyRequest struct {
	BookletType string `form:"bookletType" binding:"required,oneof=A B C D"`
}

// UploadAnswerKeyResponse summarizes a replaced answer key
type UploadAnswerKeyResponse struct {
	AnswerCount    int `json:"answerCount"`
	ObjectiveCount int `json:"objectiveCount"`
}

// AssignProductExamsRequest replaces the set of exams a product unlocks
type AssignProductExamsRequest struct {
	ExamIDs []uuid.UUID `json:"examIds" binding:"required"`
}
