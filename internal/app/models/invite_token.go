package models

import (
	"time"
)

// InviteToken defines an emailed assessment invitation based on the
// 'invite_tokens' table
type InviteToken struct {
	ID           int64     `json:"id" db:"id"`
	Token        string    `json:"token" db:"token"`
	AssessmentID int64     `json:"assessmentId" db:"assessment_id"`
	StudentEmail string    `json:"studentEmail" db:"student_email"`
	Used         bool      `json:"used" db:"used"`
	ExpiresAt    time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the invitation is past its expiry time
func (t *InviteToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
