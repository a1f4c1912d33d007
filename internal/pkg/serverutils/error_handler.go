package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status for errors raised below the controller layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// ErrorHandlerMiddleware renders any error returned by later handlers as the
// standard error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var appErr *AppError
		var fiberErr *fiber.Error
		var validationErr *ValidationError
		switch {
		case errors.As(err, &appErr):
			code, message = appErr.Code, appErr.Message
		case errors.As(err, &validationErr):
			code, message = fiber.StatusBadRequest, validationErr.Error()
		case errors.As(err, &fiberErr):
			code, message = fiberErr.Code, fiberErr.Message
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
