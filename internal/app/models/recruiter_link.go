package models

import (
	"time"
)

// RecruiterLink defines a student-recruiter association based on the
// 'recruiter_links' table. The pair is unique at the database level, which is
// what makes linking idempotent under concurrent requests.
type RecruiterLink struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	RecruiterID int64     `json:"recruiterId" db:"recruiter_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	Recruiter *User `json:"recruiter,omitempty"` // Relation, no db tag
}
