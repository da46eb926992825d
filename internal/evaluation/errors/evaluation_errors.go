package evaluationerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrEvaluationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Evaluation not found",
		http.StatusNotFound,
	)
	ErrCriterionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Evaluation criterion not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee or evaluator not found",
		http.StatusNotFound,
	)
	ErrCriterionAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Criterion name already exists in this evaluation",
		http.StatusConflict,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period_end must not be before period_start",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidScore = apperror.New(
		apperror.CodeInvalidInput,
		"Score must be between 0 and 10",
		http.StatusBadRequest,
	)
	ErrInvalidWeight = apperror.New(
		apperror.CodeInvalidInput,
		"Weight must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid evaluation ID",
		http.StatusBadRequest,
	)
)
