package fleeterrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrChecklistNotFound = apperror.New(
		apperror.CodeNotFound,
		"Vehicle checklist not found",
		http.StatusNotFound,
	)
	ErrUnknownChecklistItem = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown checklist item",
		http.StatusBadRequest,
	)
	ErrInvalidVehicle = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid vehicle id",
		http.StatusBadRequest,
	)
	ErrInvalidOdometer = apperror.New(
		apperror.CodeInvalidInput,
		"Odometer must not be negative",
		http.StatusBadRequest,
	)
)
