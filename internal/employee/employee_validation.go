package employee

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength       = 100
	maxEmailLength      = 100
	maxPositionLength   = 50
	maxDepartmentLength = 50
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailChecker = validator.New()
)

// ValidateEmployee checks every field and reports all failures in field order.
// It never touches the store; callers run it before opening a transaction.
func ValidateEmployee(req CreateEmployeeRequest) apperror.ValidationErrors {
	var errs apperror.ValidationErrors

	errs = checkText(errs, "full_name", "Full name", req.FullName, maxNameLength)
	errs = checkEmail(errs, req.Email)
	errs = checkText(errs, "position", "Position", req.Position, maxPositionLength)
	errs = checkText(errs, "department", "Department", req.Department, maxDepartmentLength)
	errs = checkPhone(errs, req.Phone)
	errs = checkHireDate(errs, req.HireDate)

	return errs
}

// ValidateUpdate additionally requires the concurrency token.
func ValidateUpdate(req UpdateEmployeeRequest) apperror.ValidationErrors {
	errs := ValidateEmployee(req.CreateEmployeeRequest)
	if req.Version < 1 {
		errs = append(errs, apperror.FieldError{Field: "version", Message: "Version is required"})
	}
	return errs
}

func checkText(errs apperror.ValidationErrors, field, label, value string, max int) apperror.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, apperror.FieldError{Field: field, Message: label + " is required"})
	}
	if utf8.RuneCountInString(value) > max {
		return append(errs, apperror.FieldError{
			Field:   field,
			Message: label + " must be at most " + strconv.Itoa(max) + " characters",
		})
	}
	return errs
}

func checkEmail(errs apperror.ValidationErrors, value string) apperror.ValidationErrors {
	before := len(errs)
	errs = checkText(errs, "email", "Email", value, maxEmailLength)
	if len(errs) > before {
		return errs
	}
	if emailChecker.Var(value, "email") != nil {
		return append(errs, apperror.FieldError{Field: "email", Message: "Email must be a valid email address"})
	}
	return errs
}

func checkPhone(errs apperror.ValidationErrors, value string) apperror.ValidationErrors {
	if value == "" {
		return append(errs, apperror.FieldError{Field: "phone", Message: "Phone is required"})
	}
	if !phonePattern.MatchString(value) {
		return append(errs, apperror.FieldError{Field: "phone", Message: "Phone must be exactly 10 digits"})
	}
	return errs
}

func checkHireDate(errs apperror.ValidationErrors, value string) apperror.ValidationErrors {
	if value == "" {
		return append(errs, apperror.FieldError{Field: "hire_date", Message: "Hire date is required"})
	}
	if _, err := time.Parse(hireDateLayout, value); err != nil {
		return append(errs, apperror.FieldError{Field: "hire_date", Message: "Hire date must be a date in YYYY-MM-DD format"})
	}
	return errs
}
