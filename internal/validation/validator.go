package validation

import (
	"errors"
	"fmt"
	"strings"

	"whiskaway/internal/models"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the application's custom tags registered:
// "username" and "intolerance".
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidateUsername(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("intolerance", func(fl validator.FieldLevel) bool {
		return models.IsKnownIntolerance(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	})
	return v
}

// Describe turns validator errors into a single readable message.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "username":
			parts = append(parts, fmt.Sprintf("%s is not a valid username", field))
		case "intolerance":
			parts = append(parts, fmt.Sprintf("%s contains an unknown intolerance", field))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(parts, "; ")
}
