package employeesalaryerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrSalaryRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrNoActiveSalary = apperror.New(
		apperror.CodeInvalidState,
		"Employee has no active salary record",
		http.StatusConflict,
	)
	ErrNoPreviousSalary = apperror.New(
		apperror.CodeInvalidState,
		"Employee has no previous salary record to revert to",
		http.StatusConflict,
	)
	ErrActiveSalaryConflict = apperror.New(
		apperror.CodeConflict,
		"Employee already has an active salary record",
		http.StatusConflict,
	)
	ErrInvalidSalaryAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Salary amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrSalaryUnchanged = apperror.New(
		apperror.CodeInvalidInput,
		"New salary equals the current salary",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid effective_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEffectiveDateBeforeActive = apperror.New(
		apperror.CodeInvalidInput,
		"effective_date must not be before the start of the active salary record",
		http.StatusBadRequest,
	)
)
