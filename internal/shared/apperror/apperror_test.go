package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps its status and code", func(t *testing.T) {
		httpErr := apperror.ToHTTP(apperror.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
		assert.Equal(t, "Resource not found", httpErr.Message)
	})

	t.Run("wrapped app error is still recognised", func(t *testing.T) {
		err := fmt.Errorf("get employee: %w", apperror.ErrForbidden)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusForbidden, httpErr.Status)
	})

	t.Run("unknown error becomes internal error without leaking text", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.Equal(t, "Internal server error", httpErr.Message)
		assert.Nil(t, httpErr.Details)
	})
}

func TestNewValidation(t *testing.T) {
	fields := apperror.ValidationErrors{
		{Field: "phone", Message: "Phone must be exactly 10 digits"},
		{Field: "email", Message: "Email is required"},
	}

	err := apperror.NewValidation(fields)

	var got apperror.ValidationErrors
	require.True(t, errors.As(err, &got))
	assert.Equal(t, fields, got)

	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, apperror.CodeValidation, httpErr.Code)
	assert.Equal(t, fields, httpErr.Details)
	assert.Equal(t, "phone Phone must be exactly 10 digits (and 1 more)", fields.Error())
}

func TestMapValidationError(t *testing.T) {
	type loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	v := validator.New()
	v.RegisterTagNameFunc(apperror.FieldName)

	err := apperror.MapValidationError(v.Struct(loginRequest{Email: "not-an-email"}))

	var fields apperror.ValidationErrors
	require.True(t, errors.As(err, &fields))
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "Email must be a valid email address", fields[0].Message)
	assert.Equal(t, "Password is required", fields[1].Message)

	t.Run("non validator error is invalid input", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("unexpected EOF"))

		assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
		assert.Equal(t, apperror.CodeInvalidInput, apperror.ToHTTP(err).Code)
	})
}

func TestFieldName(t *testing.T) {
	type query struct {
		Search   string `form:"search"`
		PageSize int    `json:"page_size,omitempty" form:"size"`
		Secret   string `json:"-"`
		Plain    string
	}
	typ := reflect.TypeOf(query{})

	assert.Equal(t, "search", apperror.FieldName(typ.Field(0)))
	assert.Equal(t, "page_size", apperror.FieldName(typ.Field(1)))
	assert.Equal(t, "", apperror.FieldName(typ.Field(2)))
	assert.Equal(t, "Plain", apperror.FieldName(typ.Field(3)))
}
