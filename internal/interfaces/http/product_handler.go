package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/usecase"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// ProductHandler consulta el catálogo de productos (solo lectura, protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetBySKU godoc
// @Summary      Buscar producto por SKU
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU (sin distinguir mayúsculas)"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/sku/{sku} [get]
func (h *ProductHandler) GetBySKU(c *fiber.Ctx) error {
	out, err := h.uc.GetBySKU(c.UserContext(), c.Params("sku"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
