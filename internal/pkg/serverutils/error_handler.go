package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"nutri-coach-be/pkg/scheduling"
)

// ErrorHandlerMiddleware recovers panics and maps domain errors that leaked
// past a controller onto the right status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(500, fmt.Sprintf("internal error: %v", r)))
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		return MapDomainError(ctx, err)
	}
}

// MapDomainError translates service layer errors into HTTP responses.
// Controllers call it directly for errors they do not special-case.
func MapDomainError(ctx *fiber.Ctx, err error) error {
	var validationErr *scheduling.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, err.Error()))
	}

	var windowErr *scheduling.ModificationWindowClosedError
	if errors.As(err, &windowErr) {
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(409, err.Error()))
	}

	var transitionErr *scheduling.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(409, err.Error()))
	}

	var slotErr *scheduling.SlotConflictError
	if errors.As(err, &slotErr) {
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(409, err.Error()))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, err.Error()))
}
