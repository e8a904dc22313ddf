package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/selim/assesshub/internal/pkg/codes"
)

// RegisterCustomValidators adds application-specific validation rules to the
// gin binding validator
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// recruitercode accepts any input that normalizes to a well-formed code
	return v.RegisterValidation("recruitercode", func(fl validator.FieldLevel) bool {
		return codes.IsWellFormed(codes.Normalize(fl.Field().String()))
	})
}
