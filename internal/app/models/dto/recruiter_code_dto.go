package dto

import "time"

// ValidateCodeRequest carries a recruiter code to check
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// CodeValidationResponse is the outcome of a side-effect-free code check
type CodeValidationResponse struct {
	IsValid       bool   `json:"isValid"`
	RecruiterID   int64  `json:"recruiterId,omitempty"`
	RecruiterName string `json:"recruiterName,omitempty"`
	Message       string `json:"message,omitempty"`
}

// LinkRequest carries the code a student links with
type LinkRequest struct {
	Code string `json:"code" binding:"required,recruitercode"`
}

// LinkResponse describes the established (or pre-existing) link
type LinkResponse struct {
	RecruiterID         int64   `json:"recruiterId"`
	RecruiterName       string  `json:"recruiterName"`
	AlreadyLinked       bool    `json:"alreadyLinked"`
	LinkedAssessmentIDs []int64 `json:"linkedAssessmentIds"`
}

// RecruiterSummary represents one linked recruiter in a student's list
type RecruiterSummary struct {
	RecruiterID   int64     `json:"recruiterId"`
	RecruiterName string    `json:"recruiterName"`
	Email         string    `json:"email"`
	LinkedAt      time.Time `json:"linkedAt"`
}
