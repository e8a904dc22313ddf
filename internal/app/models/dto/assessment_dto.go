package dto

import (
	"time"

	"github.com/selim/assesshub/internal/app/models"
)

// CreateAssessmentRequest carries a new assessment definition
type CreateAssessmentRequest struct {
	Name            string `json:"name" binding:"required,min=3,max=200"`
	Description     string `json:"description" binding:"max=2000"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1,max=600"`
}

// AssignAssessmentRequest names the student receiving a direct assignment
type AssignAssessmentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
}

// AssessmentResponse represents an assessment
type AssessmentResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedBy       int64     `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewAssessmentResponse maps an assessment model to its response representation
func NewAssessmentResponse(a *models.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		DurationMinutes: a.DurationMinutes,
		CreatedBy:       a.CreatedBy,
		CreatedAt:       a.CreatedAt,
	}
}

// AssessmentListResponse wraps a list of assessments
type AssessmentListResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Total       int                  `json:"total"`
}
