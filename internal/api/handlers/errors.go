package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/logging"
)

// errorResponse picks the status from the error kind. Unclassified errors
// are logged and hidden behind a generic message.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrBadRequest):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	case errors.Is(err, domain.ErrNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrForbidden):
		return presenters.ErrorResponse(c, fiber.StatusForbidden, message, err)
	case errors.Is(err, domain.ErrUnauthorized):
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, message, err)
	}

	logging.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(message)
	return presenters.ErrorResponse(c, fiber.StatusInternalServerError, message, errors.New(domain.MessageInternalServerError))
}

func pagination(c *fiber.Ctx) domain.PaginationRequest {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 6)
	if limit < 1 {
		limit = 6
	}
	if limit > 100 {
		limit = 100
	}
	return domain.PaginationRequest{Page: page, Limit: limit}
}
