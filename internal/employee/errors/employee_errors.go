package employeeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmailExists = apperror.New(
		apperror.CodeConflict,
		"An employee with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Employee id must be a valid UUID",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"Hire date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrUnknownRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of EMPLOYEE, MANAGER, ADMINISTRATOR",
		http.StatusBadRequest,
	)
)
