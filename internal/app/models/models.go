package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleRecruiter RoleType = "RECRUITER"
	RoleAdmin     RoleType = "ADMIN"
)

// IsValid reports whether the role is one of the known role types
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// EligibleForRecruiterCode reports whether accounts with this role receive a
// recruiter code at creation
func (r RoleType) EligibleForRecruiterCode() bool {
	return r == RoleRecruiter || r == RoleAdmin
}

// AssignmentStatus tracks a student's progress on an assigned assessment
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentStarted   AssignmentStatus = "STARTED"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
)
