package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Exam defines a canonical exam based on the 'exams' table. The jsonb map
// columns are keyed by canonical question number rendered as a decimal
// string ("1".."totalQuestions"); metadata maps omit questions without a
// value for them.
type Exam struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	Name             string            `json:"name" db:"name" example:"LGS Deneme 1"`
	Description      string            `json:"description" db:"description"`
	Subject          string            `json:"subject" db:"subject" example:"Karma"`
	DurationMinutes  int               `json:"durationMinutes" db:"duration_minutes" example:"120"`
	TotalQuestions   int               `json:"totalQuestions" db:"total_questions" example:"90"`
	AnswerKey        map[string]string `json:"answerKey" db:"answer_key"`
	ObjectiveNames   map[string]string `json:"objectiveNames" db:"objective_names"`
	ObjectiveCodes   map[string]string `json:"objectiveCodes" db:"objective_codes"`
	QuestionSubjects map[string]string `json:"questionSubjects" db:"question_subjects"`
	QuestionTests    map[string]string `json:"questionTests" db:"question_tests"`
	CreatedBy        *uuid.UUID        `json:"createdBy,omitempty" db:"created_by"`
	IsActive         bool              `json:"isActive" db:"is_active"`
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" db:"updated_at"`
	Booklets         []ExamBooklet     `json:"booklets,omitempty"` // Relation, no db tag
}

// QuestionMetadata carries the per-question labels attached during import.
type QuestionMetadata struct {
	Subject       string `json:"subject,omitempty"`
	TestLabel     string `json:"test,omitempty"`
	ObjectiveCode string `json:"objectiveCode,omitempty"`
	ObjectiveName string `json:"objectiveName,omitempty"`
}

// AnswerFor returns the correct answer for canonical question n.
// The second value is false when the key has no entry for n.
func (e *Exam) AnswerFor(n int) (string, bool) {
	answer, ok := e.AnswerKey[strconv.Itoa(n)]
	return answer, ok
}

// MetadataFor returns the labels attached to canonical question n.
// Absent labels come back as empty strings.
func (e *Exam) MetadataFor(n int) QuestionMetadata {
	q := strconv.Itoa(n)
	return QuestionMetadata{
		Subject:       e.QuestionSubjects[q],
		TestLabel:     e.QuestionTests[q],
		ObjectiveCode: e.ObjectiveCodes[q],
		ObjectiveName: e.ObjectiveNames[q],
	}
}

// ExamBooklet defines a printed variant based on the 'exam_booklets' table.
// QuestionOrder[i] is the canonical number printed at position i+1.
type ExamBooklet struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ExamID        uuid.UUID `json:"examId" db:"exam_id"`
	BookletCode   string    `json:"bookletCode" db:"booklet_code" example:"A"`
	QuestionOrder []int     `json:"questionOrder" db:"question_order"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
