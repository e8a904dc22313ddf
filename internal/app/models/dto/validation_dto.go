package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError turns a binding/validation error into an ErrorDetail
// with per-field messages
func HandleValidationError(err error) *ErrorDetail {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := NewValidationErrors()
		for _, fieldErr := range validationErrs {
			details.AddError(fieldErr.Field(), formatFieldError(fieldErr))
		}
		return NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").
			WithDetails(details.Errors)
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").
		WithDetails(err.Error())
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "recruitercode":
		return e.Field() + " must be an 8 character recruiter code"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
