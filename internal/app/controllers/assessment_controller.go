package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/services"
	"github.com/selim/assesshub/internal/middleware"
)

// AssessmentController handles assessment management and visibility
type AssessmentController struct {
	assessmentService services.AssessmentService
	accessService     services.AssessmentAccessService
	logger            zerolog.Logger
}

// NewAssessmentController creates a new AssessmentController
func NewAssessmentController(
	assessmentService services.AssessmentService,
	accessService services.AssessmentAccessService,
	logger zerolog.Logger,
) *AssessmentController {
	return &AssessmentController{
		assessmentService: assessmentService,
		accessService:     accessService,
		logger:            logger,
	}
}

// Create creates a new assessment owned by the caller
// @Summary Create an assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssessmentRequest true "Assessment definition"
// @Success 201 {object} dto.APIResponse{data=dto.AssessmentResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 403 {object} dto.APIResponse "Caller is not a recruiter"
// @Router /assessments [post]
func (c *AssessmentController) Create(ctx *gin.Context) {
	var req dto.CreateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return
	}

	resp, err := c.assessmentService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Assessment created"))
}

// Mine lists the caller's own assessments
// @Summary List own assessments
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AssessmentListResponse}
// @Router /assessments/mine [get]
func (c *AssessmentController) Mine(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return
	}

	resp, err := c.assessmentService.GetMine(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Assign directly assigns one of the caller's assessments to a student
// @Summary Assign an assessment to a student
// @Description Assigns the assessment to the student. Re-assigning the same pair succeeds without creating a duplicate.
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Param request body dto.AssignAssessmentRequest true "Target student"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Assessment belongs to another recruiter"
// @Failure 404 {object} dto.APIResponse "Assessment or student not found"
// @Router /assessments/{id}/assign [post]
func (c *AssessmentController) Assign(ctx *gin.Context) {
	assessmentID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || assessmentID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assessment ID")))
		return
	}

	var req dto.AssignAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return
	}

	alreadyAssigned, err := c.assessmentService.Assign(ctx.Request.Context(), userID, assessmentID, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Assessment assigned"
	if alreadyAssigned {
		message = "Assessment was already assigned"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, message))
}

// Visible lists every assessment the calling student can see
// @Summary List visible assessments
// @Description Returns the union of directly assigned assessments and those owned by linked recruiters, deduplicated.
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AssessmentListResponse}
// @Router /assessments/visible [get]
func (c *AssessmentController) Visible(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return
	}

	resp, err := c.accessService.VisibleAssessments(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
