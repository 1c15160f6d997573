// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emiflair/wazhop/internal/apperrors"
)

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type APIError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Message: message, Data: data}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{Success: false, Code: code, Message: message}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the result into a
// typed validation error so the central error handler can map it to a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation("invalid request body")
	}

	var parts []string
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+" failed on '"+fe.Tag()+"'")
	}
	return apperrors.Validation("validation failed: %s", strings.Join(parts, "; "))
}
