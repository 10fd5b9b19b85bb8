package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned by Validate and wraps ErrInvalid.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrInvalid
}

// Validate checks s against its validate tags.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var out ValidationErrors
	for _, err := range fieldErrs {
		field := strings.ToLower(err.Field())
		param := err.Param()

		var message string
		switch err.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s is required", field)
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		out = append(out, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return out
}
