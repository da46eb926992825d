package apperror

import (
	"net/http"

	"github.com/google/uuid"
)

// Shared errors used across features.
var (
	ErrInvalidInput     = New(CodeInvalidInput, "The provided input is invalid", http.StatusBadRequest)
	ErrInvalidCompanyID = New(CodeInvalidInput, "Invalid company ID", http.StatusBadRequest)
	ErrNotFound         = New(CodeNotFound, "Resource not found", http.StatusNotFound)

	ErrUnauthorized = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)

	ErrInternal = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
)

// ParseCompanyID parses the tenant id taken from the token.
func ParseCompanyID(companyID string) (uuid.UUID, error) {
	id, err := uuid.Parse(companyID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidCompanyID
	}
	return id, nil
}
