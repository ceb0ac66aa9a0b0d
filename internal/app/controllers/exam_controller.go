package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/app/services"
	"github.com/emre/sinavmarket/internal/middleware"
)

// ExamController handles exam definition endpoints, including spreadsheet
// imports.
type ExamController struct {
	examService   *services.ExamService
	importService *services.ImportService
}

// NewExamController creates a new ExamController
func NewExamController(examService *services.ExamService, importService *services.ImportService) *ExamController {
	return &ExamController{
		examService:   examService,
		importService: importService,
	}
}

// Create stores a structured exam definition
// @Summary Create an exam
// @Description Creates an exam from a structured definition with its answer key (admin only)
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExamRequest true "Exam definition"
// @Success 201 {object} dto.APIResponse{data=models.Exam} "Exam created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	exam, err := c.examService.Create(ctx, user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(exam))
}

// Upload imports an exam from a publisher spreadsheet
// @Summary Import an exam from xlsx
// @Description Parses an answer key spreadsheet and creates the exam with all booklet variants (admin only)
// @Tags exams
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Answer key spreadsheet (xlsx)"
// @Param name formData string true "Exam name"
// @Param durationMinutes formData int true "Exam duration in minutes"
// @Param description formData string false "Exam description"
// @Success 201 {object} dto.APIResponse{data=dto.UploadExamResponse} "Exam imported"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data or unusable spreadsheet"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/upload [post]
func (c *ExamController) Upload(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.UploadExamRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Spreadsheet file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.importService.ImportExam(ctx, user.ID, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
}

// UploadAnswerKey replaces an exam's answer key from a plain key sheet
// @Summary Re-upload an answer key
// @Description Parses a three-column key sheet and replaces the exam's answer key for one booklet (admin only)
// @Tags exams
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam UUID"
// @Param file formData file true "Answer key spreadsheet (xlsx)"
// @Param bookletType formData string true "Booklet code (A-D)"
// @Success 200 {object} dto.APIResponse{data=dto.UploadAnswerKeyResponse} "Answer key replaced"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data or unusable spreadsheet"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/answer-key [post]
func (c *ExamController) UploadAnswerKey(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UploadAnswerKeyRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Spreadsheet file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.importService.ReplaceAnswerKey(ctx, id, req.BookletType, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// List returns the exams visible to the caller
// @Summary List exams
// @Description Admins see every active exam, users the ones they are entitled to, anonymous callers an empty list
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Exam} "Exams"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	exams, err := c.examService.List(ctx, user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exams))
}

// Get retrieves one exam with its booklets
// @Summary Get exam by ID
// @Description Retrieves an exam; inactive or missing exams are not found, users without entitlement are denied
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam UUID"
// @Success 200 {object} dto.APIResponse{data=models.Exam} "Exam"
// @Failure 400 {object} dto.ErrorResponse "Invalid exam ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.Get(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exam))
}

// Update modifies an exam
// @Summary Update an exam
// @Description Updates the provided exam fields (admin only)
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam UUID"
// @Param request body dto.UpdateExamRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Exam} "Exam updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindJSONError(ctx, err)
		return
	}

	exam, err := c.examService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(exam))
}

// Delete deactivates an exam
// @Summary Delete an exam
// @Description Soft-deletes an exam; existing sessions keep their reference (admin only)
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Exam deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid exam ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.examService.Deactivate(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Exam deleted"}))
}
