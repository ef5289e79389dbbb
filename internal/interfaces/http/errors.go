package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

var validate = validator.New()

// parseBody decodifica y valida el cuerpo; responde 400 y devuelve false si falla.
func parseBody(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return f.Field() + ": no cumple la regla " + f.Tag()
	}
	return err.Error()
}

// writeError traduce errores de dominio a respuestas HTTP; lo inesperado se registra y responde 500.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidMultiplier),
		errors.Is(err, domain.ErrZeroQuantity),
		errors.Is(err, domain.ErrUnmappedNewProduct),
		errors.Is(err, domain.ErrConfirmationRequired):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrScanNoMatch):
		status, code = fiber.StatusNotFound, "SCAN_NO_MATCH"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrAssetNotAvailable):
		status, code = fiber.StatusConflict, "ASSET_NOT_AVAILABLE"
	case errors.Is(err, domain.ErrNothingScanned):
		status, code = fiber.StatusConflict, "NOTHING_SCANNED"
	case errors.Is(err, domain.ErrSessionCompleted):
		status, code = fiber.StatusConflict, "SESSION_COMPLETED"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error inesperado")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// pageFromQuery lee limit/offset con los topes del listado.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultPageLimit),
		Offset: c.QueryInt("offset", 0),
	}
	p.Normalize()
	return p
}
