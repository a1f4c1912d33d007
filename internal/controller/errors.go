package controller

import (
	"errors"

	"quality-review-be/internal/pkg/serverutils"
	"quality-review-be/internal/service"
	"quality-review-be/pkg/qualityapi"
	"quality-review-be/pkg/review"

	"github.com/gofiber/fiber/v2"
)

// mapReviewError gives review and backend errors their HTTP status. Anything
// unknown falls through to the 500 handler.
func mapReviewError(err error) error {
	if apiErr, ok := qualityapi.AsAPIError(err); ok {
		code := fiber.StatusBadGateway
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			code = apiErr.StatusCode
		}
		return serverutils.NewAppError(code, apiErr.Message, err)
	}

	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrForbidden):
		return serverutils.NewAppError(fiber.StatusForbidden, err.Error(), err)
	case errors.Is(err, review.ErrUnknownMessage):
		return serverutils.NewAppError(fiber.StatusNotFound, err.Error(), err)
	case errors.Is(err, review.ErrNoMessageSelected), errors.Is(err, review.ErrInvalidRating):
		return serverutils.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, review.ErrSessionNotLoaded):
		return serverutils.NewAppError(fiber.StatusConflict, err.Error(), err)
	}
	return err
}
