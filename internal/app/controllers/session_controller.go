package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/services"
	"github.com/emre/sinavmarket/internal/middleware"
)

// SessionController handles exam attempt endpoints
type SessionController struct {
	sessionService *services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// Start begins or resumes an attempt
// @Summary Start an exam session
// @Description Starts an attempt on an exam, or returns the caller's running one. Requires entitlement to the exam.
// @Tags exam-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartSessionRequest true "Exam and booklet"
// @Success 200 {object} dto.APIResponse{data=models.ExamSession} "Existing session resumed"
// @Success 201 {object} dto.APIResponse{data=models.ExamSession} "Session started"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "No entitlement for this exam"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Unknown booklet"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exam-sessions/start [post]
func (c *SessionController) Start(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	session, resumed, err := c.sessionService.Start(ctx, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusCreated
	if resumed {
		status = http.StatusOK
	}
	ctx.JSON(status, dto.NewSuccessResponse(session))
}

// Get retrieves one session
// @Summary Get exam session by ID
// @Description Retrieves a session; visible only to its student or an admin
// @Tags exam-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session UUID"
// @Success 200 {object} dto.APIResponse{data=models.ExamSession} "Session"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exam-sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	session, err := c.sessionService.Get(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session))
}

// SaveAnswers autosaves the whole answer map
// @Summary Save session answers
// @Description Replaces the running session's answer map. Completed sessions reject the update.
// @Tags exam-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session UUID"
// @Param request body dto.SaveAnswersRequest true "Answer map"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Answers saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid answers"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exam-sessions/{id}/answers [put]
func (c *SessionController) SaveAnswers(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SaveAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	if err := c.sessionService.SaveAnswers(ctx, user, id, req.Answers); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Answers saved"}))
}

// Submit finishes and scores the session
// @Summary Submit an exam session
// @Description Freezes the session with its final answers and returns the scored result
// @Tags exam-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session UUID"
// @Param request body dto.SubmitSessionRequest false "Final answers; omit to submit the autosaved ones"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResultResponse} "Result"
// @Failure 400 {object} dto.ErrorResponse "Invalid answers"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exam-sessions/{id}/submit [post]
func (c *SessionController) Submit(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	// An empty body submits the autosaved answers
	var req dto.SubmitSessionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			bindJSONError(ctx, err)
			return
		}
	}

	result, err := c.sessionService.Submit(ctx, user, id, req.StudentAnswers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// Report serves the analytics view of a session
// @Summary Get session report
// @Description Returns the summary with per-test and per-objective breakdowns over the session's answers
// @Tags exam-sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionReportResponse} "Report"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exam-sessions/{id}/report [get]
func (c *SessionController) Report(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	report, err := c.sessionService.Report(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// GetMine lists the caller's sessions
// @Summary List own exam sessions
// @Description Retrieves the authenticated user's sessions, newest first
// @Tags exam-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ExamSession} "Sessions"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /my-exam-sessions [get]
func (c *SessionController) GetMine(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	sessions, err := c.sessionService.GetMine(ctx, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sessions))
}
