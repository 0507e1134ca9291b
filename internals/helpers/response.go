package helper

import (
	"errors"
	"log"

	"presensi_backend/internals/helpers/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationError mengubah validator.ValidationErrors → JsonValidationError.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
	}
	return JsonValidationError(c, fields)
}

// AppErrorStatus memetakan apperr.Kind → HTTP status.
func AppErrorStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindState, apperr.KindDuplicate:
		return fiber.StatusConflict
	case apperr.KindInvalidToken:
		return fiber.StatusUnprocessableEntity
	case apperr.KindConfiguration:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// JsonAppError: render *apperr.Error / *fiber.Error / error biasa dengan shape ErrorResponse.
// Error internal tidak membocorkan detail ke client.
func JsonAppError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		return JsonError(c, fiber.StatusInternalServerError, "")
	}

	status := AppErrorStatus(ae.Kind)
	if ae.Kind == apperr.KindInternal {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		return JsonErrorCode(c, status, "INTERNAL_ERROR", "Terjadi kesalahan pada server")
	}
	if ae.Kind == apperr.KindConfiguration {
		log.Printf("[CONFIG] %s %s: %s", c.Method(), c.OriginalURL(), ae.Message)
	}
	return JsonErrorCode(c, status, ae.Code, ae.Message)
}

// FiberErrorHandler dipasang di fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return JsonAppError(c, err)
}
