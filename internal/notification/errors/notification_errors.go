package notificationerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)
	ErrInvalidEvent = apperror.New(
		apperror.CodeInvalidInput,
		"Stock level event has invalid quantities",
		http.StatusBadRequest,
	)
)
