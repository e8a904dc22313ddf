package dto

import "time"

// SendInviteRequest carries an invitation for one of the caller's assessments
type SendInviteRequest struct {
	AssessmentID int64  `json:"assessmentId" binding:"required,min=1"`
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}

// InviteResponse describes a created invitation
type InviteResponse struct {
	Token        string    `json:"token"`
	AssessmentID int64     `json:"assessmentId"`
	StudentEmail string    `json:"studentEmail"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// InviteStatusResponse is the outcome of a token status check
type InviteStatusResponse struct {
	IsValid        bool   `json:"isValid"`
	AssessmentID   int64  `json:"assessmentId,omitempty"`
	AssessmentName string `json:"assessmentName,omitempty"`
	Message        string `json:"message,omitempty"`
}

// AcceptInviteResponse describes the result of accepting an invitation
type AcceptInviteResponse struct {
	AssessmentID  int64  `json:"assessmentId"`
	RecruiterID   int64  `json:"recruiterId"`
	RecruiterName string `json:"recruiterName"`
	Linked        bool   `json:"linked"`
}
