package models

import (
	"time"
)

// Assessment defines the assessment model based on the 'assessments' table
type Assessment struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"`
	CreatedBy       int64     `json:"createdBy" db:"created_by"` // Owning recruiter's user ID
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// StudentAssessment defines a direct assignment of an assessment to a student,
// based on the 'student_assessments' table
type StudentAssessment struct {
	ID           int64            `json:"id" db:"id"`
	StudentID    int64            `json:"studentId" db:"student_id"`
	AssessmentID int64            `json:"assessmentId" db:"assessment_id"`
	RecruiterID  *int64           `json:"recruiterId,omitempty" db:"recruiter_id"` // Assigning recruiter, nullable for invite-driven assignments
	Status       AssignmentStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}
