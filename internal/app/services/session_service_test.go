package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/db"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
)

// In-memory fakes over the store interfaces. They mirror the conditional
// update semantics of the real repositories.

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeSessionStore struct {
	byID map[uuid.UUID]*models.ExamSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byID: map[uuid.UUID]*models.ExamSession{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session *models.ExamSession) error {
	for _, s := range f.byID {
		if s.ExamID == session.ExamID && s.StudentID == session.StudentID && s.Status == models.SessionStarted {
			return apperrors.ErrConflict
		}
	}
	session.ID = uuid.New()
	session.Status = models.SessionStarted
	session.StartedAt = time.Now()
	copied := *session
	f.byID[session.ID] = &copied
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*models.ExamSession, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) GetStarted(_ context.Context, examID, studentID uuid.UUID) (*models.ExamSession, error) {
	for _, s := range f.byID {
		if s.ExamID == examID && s.StudentID == studentID && s.Status == models.SessionStarted {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeSessionStore) GetByStudent(_ context.Context, studentID uuid.UUID) ([]models.ExamSession, error) {
	out := []models.ExamSession{}
	for _, s := range f.byID {
		if s.StudentID == studentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) SaveAnswers(_ context.Context, id uuid.UUID, answers map[string]string) error {
	s, ok := f.byID[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if s.Status != models.SessionStarted {
		return apperrors.ErrSessionCompleted
	}
	s.StudentAnswers = answers
	return nil
}

func (f *fakeSessionStore) GetForUpdate(ctx context.Context, _ repositories.Querier, id uuid.UUID) (*models.ExamSession, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSessionStore) Complete(_ context.Context, _ repositories.Querier, id uuid.UUID, answers map[string]string, score int, percentage float64, completedAt time.Time) error {
	s, ok := f.byID[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if s.Status != models.SessionStarted {
		return apperrors.ErrSessionCompleted
	}
	s.StudentAnswers = answers
	s.Score = &score
	s.Percentage = &percentage
	s.Status = models.SessionCompleted
	s.CompletedAt = &completedAt
	return nil
}

type fakeExamStore struct {
	byID map[uuid.UUID]*models.Exam
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*models.Exam, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrExamNotFound
	}
	return e, nil
}

func (f *fakeExamStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	e, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsActive {
		return nil, apperrors.ErrExamNotFound
	}
	return e, nil
}

type fakeBookletStore struct {
	codes map[uuid.UUID][]string
}

func (f *fakeBookletStore) GetByCode(_ context.Context, examID uuid.UUID, code string) (*models.ExamBooklet, error) {
	for _, c := range f.codes[examID] {
		if c == code {
			return &models.ExamBooklet{ExamID: examID, BookletCode: code}, nil
		}
	}
	return nil, apperrors.ErrUnknownBooklet
}

type fakeAccessChecker struct {
	granted map[uuid.UUID]map[uuid.UUID]bool // userID -> examID
}

func (f *fakeAccessChecker) HasAccess(_ context.Context, user *models.User, examID uuid.UUID) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}
	return f.granted[user.ID][examID], nil
}

type sessionFixture struct {
	service  *SessionService
	sessions *fakeSessionStore
	exam     *models.Exam
	student  *models.User
	admin    *models.User
	access   *fakeAccessChecker
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	exam := &models.Exam{
		ID:              uuid.New(),
		Name:            "LGS Deneme 1",
		DurationMinutes: 60,
		TotalQuestions:  4,
		AnswerKey:       map[string]string{"1": "A", "2": "B", "3": "C", "4": "D"},
		QuestionTests:   map[string]string{"1": "Matematik", "2": "Matematik", "3": "Fen", "4": "Fen"},
		ObjectiveCodes:  map[string]string{"1": "M.8.1", "2": "M.8.2"},
		ObjectiveNames:  map[string]string{"1": "Çarpanlar", "2": "Üslü ifadeler"},
		QuestionSubjects: map[string]string{
			"1": "Matematik", "2": "Matematik", "3": "Fen", "4": "Fen",
		},
		IsActive: true,
	}

	student := &models.User{ID: uuid.New(), Role: models.RoleUser}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	sessions := newFakeSessionStore()
	access := &fakeAccessChecker{granted: map[uuid.UUID]map[uuid.UUID]bool{
		student.ID: {exam.ID: true},
	}}

	service := &SessionService{
		tx:       fakeTxRunner{},
		sessions: sessions,
		exams:    &fakeExamStore{byID: map[uuid.UUID]*models.Exam{exam.ID: exam}},
		booklets: &fakeBookletStore{codes: map[uuid.UUID][]string{exam.ID: {"A", "B"}}},
		access:   access,
	}

	return &sessionFixture{
		service:  service,
		sessions: sessions,
		exam:     exam,
		student:  student,
		admin:    admin,
		access:   access,
	}
}

func startRequest(f *sessionFixture, code string) *dto.StartSessionRequest {
	return &dto.StartSessionRequest{ExamID: f.exam.ID, BookletCode: code}
}

func TestStart_IsIdempotent(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, resumed, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if resumed {
		t.Fatal("first start reported resumed")
	}

	second, resumed, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !resumed {
		t.Fatal("second start did not resume")
	}
	if first.ID != second.ID {
		t.Fatalf("second start created a new session: %s != %s", first.ID, second.ID)
	}
}

func TestStart_NormalizesBookletCode(t *testing.T) {
	f := newSessionFixture(t)

	session, _, err := f.service.Start(context.Background(), f.student, startRequest(f, " b "))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.BookletCode != "B" {
		t.Fatalf("booklet code = %q, want B", session.BookletCode)
	}
}

func TestStart_RequiresEntitlement(t *testing.T) {
	f := newSessionFixture(t)
	stranger := &models.User{ID: uuid.New(), Role: models.RoleUser}

	_, _, err := f.service.Start(context.Background(), stranger, startRequest(f, "A"))
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestStart_AdminBypassesEntitlement(t *testing.T) {
	f := newSessionFixture(t)

	if _, _, err := f.service.Start(context.Background(), f.admin, startRequest(f, "A")); err != nil {
		t.Fatalf("admin start: %v", err)
	}
}

func TestStart_UnknownBooklet(t *testing.T) {
	f := newSessionFixture(t)

	_, _, err := f.service.Start(context.Background(), f.student, startRequest(f, "E"))
	if !errors.Is(err, apperrors.ErrUnknownBooklet) {
		t.Fatalf("err = %v, want ErrUnknownBooklet", err)
	}
}

func TestStart_RejectsMalformedBookletCode(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	for _, code := range []string{"AB", "1", ""} {
		_, _, err := f.service.Start(ctx, f.student, startRequest(f, code))
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("code %q: err = %v, want ErrValidationFailed", code, err)
		}
	}
}

func TestSaveAnswers_OverwritesWholeMap(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := f.service.SaveAnswers(ctx, f.student, session.ID, map[string]string{"1": "a", "2": "b"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := f.service.SaveAnswers(ctx, f.student, session.ID, map[string]string{"3": "c"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := f.service.Get(ctx, f.student, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.StudentAnswers) != 1 || got.StudentAnswers["3"] != "C" {
		t.Fatalf("answers = %v, want only 3:C", got.StudentAnswers)
	}
}

func TestSaveAnswers_RejectsInvalidInput(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	cases := []struct {
		name    string
		answers map[string]string
	}{
		{"letter out of range", map[string]string{"1": "F"}},
		{"question zero", map[string]string{"0": "A"}},
		{"question beyond total", map[string]string{"5": "A"}},
		{"non-numeric question", map[string]string{"abc": "A"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.service.SaveAnswers(ctx, f.student, session.ID, tc.answers)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestSaveAnswers_DeniedForOtherUsers(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	stranger := &models.User{ID: uuid.New(), Role: models.RoleUser}
	err = f.service.SaveAnswers(ctx, stranger, session.ID, map[string]string{"1": "A"})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestSubmit_ScoresAndFreezes(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// 1 correct, 2 wrong, 3 correct, 4 empty
	result, err := f.service.Submit(ctx, f.student, session.ID, map[string]string{
		"1": "A", "2": "E", "3": "C",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if result.CorrectAnswers != 2 || result.IncorrectAnswers != 1 || result.EmptyAnswers != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1",
			result.CorrectAnswers, result.IncorrectAnswers, result.EmptyAnswers)
	}
	if result.Session.Status != models.SessionCompleted {
		t.Fatalf("status = %s, want completed", result.Session.Status)
	}
	if result.Session.Score == nil || *result.Session.Score != 2 {
		t.Fatalf("score = %v, want 2", result.Session.Score)
	}
	if result.Session.Percentage == nil || *result.Session.Percentage != 50 {
		t.Fatalf("percentage = %v, want 50", result.Session.Percentage)
	}
	if result.Session.CompletedAt == nil {
		t.Fatal("completedAt not set")
	}
}

func TestSubmit_UsesAutosavedAnswersWhenBodyEmpty(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.service.SaveAnswers(ctx, f.student, session.ID, map[string]string{"1": "A", "2": "B"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err := f.service.Submit(ctx, f.student, session.ID, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.CorrectAnswers != 2 {
		t.Fatalf("correct = %d, want 2", result.CorrectAnswers)
	}
}

func TestSubmit_RejectsResubmission(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.service.Submit(ctx, f.student, session.ID, map[string]string{"1": "A"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err = f.service.Submit(ctx, f.student, session.ID, map[string]string{"1": "B"})
	if !errors.Is(err, apperrors.ErrSessionCompleted) {
		t.Fatalf("err = %v, want ErrSessionCompleted", err)
	}
}

func TestCompletedSessionAnswersAreImmutable(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.service.Submit(ctx, f.student, session.ID, map[string]string{"1": "A"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err = f.service.SaveAnswers(ctx, f.student, session.ID, map[string]string{"1": "B"})
	if !errors.Is(err, apperrors.ErrSessionCompleted) {
		t.Fatalf("err = %v, want ErrSessionCompleted", err)
	}

	got, err := f.service.Get(ctx, f.student, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StudentAnswers["1"] != "A" {
		t.Fatalf("answers changed after completion: %v", got.StudentAnswers)
	}
}

func TestReport_GroupsByTestAndObjective(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.service.Submit(ctx, f.student, session.ID, map[string]string{
		"1": "A", "2": "C", "3": "C",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := f.service.Report(ctx, f.student, session.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if report.ExamName != f.exam.Name {
		t.Fatalf("examName = %q", report.ExamName)
	}
	if report.Summary.Correct != 2 {
		t.Fatalf("summary correct = %d, want 2", report.Summary.Correct)
	}
	if len(report.ByTest) != 2 || report.ByTest[0].Test != "Matematik" || report.ByTest[1].Test != "Fen" {
		t.Fatalf("byTest order wrong: %+v", report.ByTest)
	}
	if len(report.ByObjective) != 1 || report.ByObjective[0].Subject != "Matematik" {
		t.Fatalf("byObjective = %+v", report.ByObjective)
	}
	if len(report.ByObjective[0].Objectives) != 2 {
		t.Fatalf("objective count = %d, want 2", len(report.ByObjective[0].Objectives))
	}
}

func TestReport_RemainingSecondsFollowsStatus(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	session, _, err := f.service.Start(ctx, f.student, startRequest(f, "A"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	running, err := f.service.Report(ctx, f.student, session.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	// The fixture exam runs 60 minutes and the session just started
	if running.RemainingSeconds <= 0 || running.RemainingSeconds > 60*60 {
		t.Fatalf("remainingSeconds = %d, want within (0, 3600]", running.RemainingSeconds)
	}

	if _, err := f.service.Submit(ctx, f.student, session.ID, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	completed, err := f.service.Report(ctx, f.student, session.ID)
	if err != nil {
		t.Fatalf("report after submit: %v", err)
	}
	if completed.RemainingSeconds != 0 {
		t.Fatalf("remainingSeconds after completion = %d, want 0", completed.RemainingSeconds)
	}
}
