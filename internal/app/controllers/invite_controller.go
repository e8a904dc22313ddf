package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/services"
	"github.com/selim/assesshub/internal/middleware"
)

// InviteController handles emailed assessment invitations
type InviteController struct {
	inviteService services.InviteService
	logger        zerolog.Logger
}

// NewInviteController creates a new InviteController
func NewInviteController(inviteService services.InviteService, logger zerolog.Logger) *InviteController {
	return &InviteController{
		inviteService: inviteService,
		logger:        logger,
	}
}

// Send creates an invitation and emails it to the student
// @Summary Send an assessment invitation
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendInviteRequest true "Invitation details"
// @Success 201 {object} dto.APIResponse{data=dto.InviteResponse}
// @Failure 403 {object} dto.APIResponse "Assessment belongs to another recruiter"
// @Router /invites/send [post]
func (c *InviteController) Send(ctx *gin.Context) {
	var req dto.SendInviteRequest
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

	resp, err := c.inviteService.Send(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Invitation sent"))
}

// Status checks an invitation token without consuming it
// @Summary Check invitation status
// @Tags invites
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} dto.APIResponse{data=dto.InviteStatusResponse}
// @Router /invites/status/{token} [get]
func (c *InviteController) Status(ctx *gin.Context) {
	resp, err := c.inviteService.Status(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Accept consumes an invitation for the authenticated student
// @Summary Accept an invitation
// @Description Assigns the invited assessment to the caller and links them to the inviting recruiter. Both effects are idempotent.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} dto.APIResponse{data=dto.AcceptInviteResponse}
// @Failure 409 {object} dto.APIResponse "Invitation already used"
// @Failure 410 {object} dto.APIResponse "Invitation expired"
// @Router /invites/accept/{token} [post]
func (c *InviteController) Accept(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")))
		return
	}

	resp, err := c.inviteService.Accept(ctx.Request.Context(), userID, ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Invitation accepted"))
}
