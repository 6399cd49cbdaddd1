package employeeerrors

import (
	"net/http"

	"github.com/dilinamewan/Employee-Directory/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeVersionConflict = apperror.New(
		apperror.CodeConflict,
		"Employee was modified by someone else, reload and try again",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidListQuery = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid list query, page and page_size must be integers",
		http.StatusBadRequest,
	)
)
