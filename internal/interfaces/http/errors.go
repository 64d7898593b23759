package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
)

// errorMapping traduce un error de dominio a código HTTP y código de negocio.
// El orden importa: ErrDuplicateCell y ErrInsufficientStock antes que ErrConflict genérico.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidArgument, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicateCell, fiber.StatusConflict, "DUPLICATE_CELL"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrPermissionDenied, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrStorageFailure, fiber.StatusServiceUnavailable, "STORAGE"},
}

// StatusFor devuelve el código HTTP y el código de negocio para err.
func StatusFor(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe dto.ErrorResponse. Los fallos internos y de almacenamiento
// no exponen el detalle del driver al cliente.
func respondError(c *fiber.Ctx, err error) error {
	status, code := StatusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("code", code).Msg("error atendiendo petición")
		msg = "error interno, intente más tarde"
		if code == "STORAGE" {
			msg = "almacenamiento no disponible, intente más tarde"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador global de fiber para errores no atendidos por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(fe.Code), Message: fe.Message})
	}
	return respondError(c, err)
}
