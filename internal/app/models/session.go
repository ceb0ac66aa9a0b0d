package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the state of an exam session
type SessionStatus string

const (
	SessionStarted   SessionStatus = "started"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// ExamSession defines one student attempt based on the 'exam_sessions'
// table. Answers are keyed by canonical question number as a decimal string;
// Score and Percentage stay nil until the session is submitted.
type ExamSession struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	ExamID         uuid.UUID         `json:"examId" db:"exam_id"`
	StudentID      uuid.UUID         `json:"studentId" db:"student_id"`
	BookletCode    string            `json:"bookletCode" db:"booklet_code" example:"A"`
	StudentAnswers map[string]string `json:"studentAnswers" db:"student_answers"`
	Score          *int              `json:"score,omitempty" db:"score"`
	Percentage     *float64          `json:"percentage,omitempty" db:"percentage"`
	Status         SessionStatus     `json:"status" db:"status" example:"started"`
	StartedAt      time.Time         `json:"startedAt" db:"started_at"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
}

// ExamAccess defines an entitlement row based on the 'user_exam_access'
// table. OrderID is set when the grant came from a confirmed purchase.
type ExamAccess struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	ExamID    uuid.UUID  `json:"examId" db:"exam_id"`
	OrderID   *uuid.UUID `json:"orderId,omitempty" db:"order_id"`
	GrantedAt time.Time  `json:"grantedAt" db:"granted_at"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
}

// Expired reports whether the grant has lapsed at the given time.
// A nil ExpiresAt never expires.
func (a *ExamAccess) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}
