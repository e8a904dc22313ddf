package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Recruiter code and linking errors
var (
	// ErrInvalidRecruiterCode covers a malformed code as well as a code no
	// recruiter-role account holds. Validation endpoints turn it into a
	// negative result, not a failure.
	ErrInvalidRecruiterCode = errors.New("invalid recruiter code")

	// ErrSelfLinkNotAllowed rejects an account presenting its own code.
	ErrSelfLinkNotAllowed = errors.New("cannot link to your own recruiter code")

	// ErrOnlyStudentsMayLink rejects link attempts from non-student callers.
	ErrOnlyStudentsMayLink = errors.New("only students can link to recruiters")

	// ErrCodeSpaceExhausted signals that code generation burned through its
	// retry budget. Operator-facing; indicates a broken random source, not a
	// transient condition.
	ErrCodeSpaceExhausted = errors.New("recruiter code space exhausted")

	// ErrRecruiterCodeMissing means a recruiter-role account has no code,
	// which should be impossible for accounts created through registration.
	ErrRecruiterCodeMissing = errors.New("recruiter has no code assigned")
)

// Assessment errors
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrNotAssessmentOwner = errors.New("assessment belongs to another recruiter")
)

// Invitation errors
var (
	ErrInviteNotFound = errors.New("invitation token not found")
	ErrInviteUsed     = errors.New("invitation has already been used")
	ErrInviteExpired  = errors.New("invitation has expired")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
