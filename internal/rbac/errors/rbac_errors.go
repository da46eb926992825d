package rbacerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Role not found",
		http.StatusNotFound,
	)
	ErrRoleAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Role with the same name already exists",
		http.StatusConflict,
	)
	ErrUnknownPermission = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown permission, expected resource:action",
		http.StatusBadRequest,
	)
	ErrPolicyUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Authorization policy could not be loaded",
		http.StatusServiceUnavailable,
	)
)
