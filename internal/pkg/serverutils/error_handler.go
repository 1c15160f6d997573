// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/emiflair/wazhop/internal/apperrors"
)

// ErrorHandlerMiddleware catches errors returned by downstream handlers and
// renders them through ErrorHandler.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}

// ErrorHandler translates service-layer errors into HTTP responses. Domain
// errors carry a Kind; everything else is a 500 with a generic message so
// internals never leak to the client.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Kind {
		case apperrors.KindValidation:
			status = fiber.StatusBadRequest
		case apperrors.KindNotFound:
			status = fiber.StatusNotFound
		case apperrors.KindConflict:
			status = fiber.StatusConflict
		case apperrors.KindPayment:
			status = fiber.StatusPaymentRequired
		case apperrors.KindConfiguration:
			status = fiber.StatusInternalServerError
		}
		return ctx.Status(status).JSON(fiber.Map{"message": appErr.Message})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
}
