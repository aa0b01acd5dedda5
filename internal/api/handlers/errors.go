package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/acme/sales-callback/pkg/errors"
)

const (
	msgMissingPhone = "Telefonnummer saknas."
	msgInvalidPhone = "Ogiltigt telefonnummerformat. Ange ett giltigt telefonnummer."
	msgRateLimited  = "Du har redan skickat en förfrågan. Vänta en stund och försök igen."
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, apperrors.ErrMissingInput):
		return fiber.NewError(http.StatusBadRequest, msgMissingPhone)
	case errors.Is(err, apperrors.ErrInvalidFormat):
		return fiber.NewError(http.StatusBadRequest, msgInvalidPhone)
	case errors.Is(err, apperrors.ErrRateLimited):
		return fiber.NewError(http.StatusTooManyRequests, msgRateLimited)
	default:
		return err
	}
}
