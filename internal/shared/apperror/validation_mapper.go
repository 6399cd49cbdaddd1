package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// recipient_phone -> Recipient Phone
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

// MapValidationError converts gin binding failures into field errors. Field
// names come from json tags once Init has registered the tag name func.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := make(ValidationErrors, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, FieldError{
				Field:   e.Field(),
				Message: formatFieldName(e.Field()) + " " + messageForTag(e),
			})
		}
		return NewValidation(fields)
	}

	return Wrap(err, CodeInvalidInput, "Invalid request body", ErrInvalidInput.HTTPStatus)
}
