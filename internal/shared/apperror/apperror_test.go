package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"go-erp/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", apperror.ErrNotFound)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
	})

	t.Run("unknown error hides message", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.ErrInternal.Message, httpErr.Message)
	})

	t.Run("client error exposes cause as details", func(t *testing.T) {
		err := apperror.Wrap(errors.New("bad date"), apperror.CodeInvalidInput, "Invalid input", http.StatusBadRequest)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, "bad date", httpErr.Details)
	})
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		CurrentSalary string `validate:"required"`
		Email         string `validate:"email"`
	}
	v := validator.New()

	err := apperror.MapValidationError(v.Struct(payload{Email: "ok@example.com"}))
	assert.EqualError(t, err, "Currentsalary is required")

	err = apperror.MapValidationError(v.Struct(payload{CurrentSalary: "1", Email: "nope"}))
	assert.EqualError(t, err, "Email is invalid")

	type options struct {
		Kind string `validate:"oneof=product material"`
		Name string `validate:"max=3"`
	}
	err = apperror.MapValidationError(v.Struct(options{Kind: "service"}))
	assert.EqualError(t, err, "Kind must be one of: product, material")

	err = apperror.MapValidationError(v.Struct(options{Kind: "product", Name: "hammer"}))
	assert.EqualError(t, err, "Name must be at most 3 characters")

	err = apperror.MapValidationError(errors.New("eof"))
	assert.EqualError(t, err, "Invalid input")
}

func TestJSONFieldName(t *testing.T) {
	type payload struct {
		Amount  string `json:"amount,omitempty"`
		Secret  string `json:"-"`
		Untyped string
	}
	typ := reflect.TypeOf(payload{})

	assert.Equal(t, "amount", apperror.JSONFieldName(typ.Field(0)))
	assert.Equal(t, "", apperror.JSONFieldName(typ.Field(1)))
	assert.Equal(t, "Untyped", apperror.JSONFieldName(typ.Field(2)))
}
