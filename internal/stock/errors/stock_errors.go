package stockerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Stock item not found",
		http.StatusNotFound,
	)
	ErrItemCodeExists = apperror.New(
		apperror.CodeConflict,
		"Stock item code already exists",
		http.StatusConflict,
	)
	ErrMovementTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Movement type not found",
		http.StatusNotFound,
	)
	ErrMovementTypeCodeExists = apperror.New(
		apperror.CodeConflict,
		"Movement type code already exists",
		http.StatusConflict,
	)
	ErrMovementTypeInactive = apperror.New(
		apperror.CodeInvalidState,
		"Movement type is inactive",
		http.StatusUnprocessableEntity,
	)
	ErrMovementNotFound = apperror.New(
		apperror.CodeNotFound,
		"Stock movement not found",
		http.StatusNotFound,
	)
	ErrLineItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Stock line item not found",
		http.StatusNotFound,
	)
	ErrInvalidQuantity = apperror.New(
		apperror.CodeInvalidInput,
		"Quantity must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidUnitPrice = apperror.New(
		apperror.CodeInvalidInput,
		"Unit price must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidStockLimits = apperror.New(
		apperror.CodeInvalidInput,
		"min_stock must not be negative or above max_stock",
		http.StatusBadRequest,
	)
	ErrInsufficientStock = apperror.New(
		apperror.CodeInvalidState,
		"Not enough available stock to reserve",
		http.StatusConflict,
	)
	ErrReleaseExceedsReserved = apperror.New(
		apperror.CodeInvalidState,
		"Release quantity exceeds reserved quantity",
		http.StatusConflict,
	)
)
