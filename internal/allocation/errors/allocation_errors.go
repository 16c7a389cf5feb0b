package allocationerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrNoAllocation = apperror.New(
		apperror.CodeNotFound,
		"no leave allocation exists for this employee, leave type and period",
		http.StatusNotFound,
	)
	ErrAllocationExists = apperror.New(
		apperror.CodeConflict,
		"allocation already exists for this employee, leave type and period",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"unknown role",
		http.StatusBadRequest,
	)
)
