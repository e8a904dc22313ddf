package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selim/assesshub/internal/app/controllers"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	recruiterCodeController *controllers.RecruiterCodeController,
	assessmentController *controllers.AssessmentController,
	inviteController *controllers.InviteController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// Code validation and invite status are public so a student can check a
	// code or an emailed link before creating an account
	v1.POST("/recruiter-code/validate", recruiterCodeController.ValidateCode)
	v1.GET("/invites/status/:token", inviteController.Status)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.GetProfile)

		// Student-only routes
		studentOnly := authenticated.Group("")
		studentOnly.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			studentOnly.POST("/recruiter-code/link", recruiterCodeController.Link)
			studentOnly.GET("/recruiter-code/my-recruiters", recruiterCodeController.MyRecruiters)
			studentOnly.GET("/assessments/visible", assessmentController.Visible)
			studentOnly.POST("/invites/accept/:token", inviteController.Accept)
		}

		// Recruiter and admin routes
		recruiterOnly := authenticated.Group("")
		recruiterOnly.Use(authMiddleware.RoleRequired(models.RoleRecruiter, models.RoleAdmin))
		{
			recruiterOnly.POST("/assessments", assessmentController.Create)
			recruiterOnly.GET("/assessments/mine", assessmentController.Mine)
			recruiterOnly.POST("/assessments/:id/assign", assessmentController.Assign)
			recruiterOnly.POST("/invites/send", inviteController.Send)
		}
	}
}
