package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/services"
	"github.com/selim/assesshub/internal/middleware"
)

// RecruiterCodeController handles recruiter code validation and linking
type RecruiterCodeController struct {
	linkService services.RecruiterLinkService
	logger      zerolog.Logger
}

// NewRecruiterCodeController creates a new RecruiterCodeController
func NewRecruiterCodeController(linkService services.RecruiterLinkService, logger zerolog.Logger) *RecruiterCodeController {
	return &RecruiterCodeController{
		linkService: linkService,
		logger:      logger,
	}
}

// ValidateCode checks a recruiter code without linking
// @Summary Validate a recruiter code
// @Description Checks whether a code belongs to a recruiter. No link is created; a bad code yields isValid=false, not an error.
// @Tags recruiter-code
// @Accept json
// @Produce json
// @Param request body dto.ValidateCodeRequest true "Code to validate"
// @Success 200 {object} dto.APIResponse{data=dto.CodeValidationResponse}
// @Failure 400 {object} dto.APIResponse "Missing code"
// @Router /recruiter-code/validate [post]
func (c *RecruiterCodeController) ValidateCode(ctx *gin.Context) {
	var req dto.ValidateCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.linkService.ValidateCode(ctx.Request.Context(), req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Link links the authenticated student to a recruiter by code
// @Summary Link to a recruiter
// @Description Associates the calling student with the recruiter holding the code. Linking twice is a success reporting alreadyLinked.
// @Tags recruiter-code
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LinkRequest true "Recruiter code"
// @Success 200 {object} dto.APIResponse{data=dto.LinkResponse}
// @Failure 400 {object} dto.APIResponse "Invalid code or self-link"
// @Failure 403 {object} dto.APIResponse "Caller is not a student"
// @Router /recruiter-code/link [post]
func (c *RecruiterCodeController) Link(ctx *gin.Context) {
	var req dto.LinkRequest
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

	resp, err := c.linkService.Link(ctx.Request.Context(), userID, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Linked to recruiter"))
}

// MyRecruiters lists the authenticated student's linked recruiters
// @Summary List linked recruiters
// @Description Returns the caller's linked recruiters in link-creation order
// @Tags recruiter-code
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RecruiterSummary}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /recruiter-code/my-recruiters [get]
func (c *RecruiterCodeController) MyRecruiters(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return
	}

	recruiters, err := c.linkService.GetRecruitersFor(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(recruiters, ""))
}
