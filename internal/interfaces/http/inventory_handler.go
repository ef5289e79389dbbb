package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// StockHandler maneja el libro de stock por (producto, bodega) (protegido).
type StockHandler struct {
	uc  *inventory.StockLedgerUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockLedgerUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Alta o incremento de stock
// @Description  Si la posición (producto, bodega) existe, suma la cantidad; si no, la crea.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "product_id, warehouse_id, quantity, min_quantity"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar stock de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (por defecto la del token)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id", GetWarehouseID(c))
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	out, err := h.uc.ListByWarehouse(c.UserContext(), warehouseID, pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Posiciones bajo mínimo o agotadas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false "Bodega (por defecto la del token)"
// @Success      200  {array}  dto.LowStockItem
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id", GetWarehouseID(c))
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	out, err := h.uc.LowStock(c.UserContext(), warehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// GetByID godoc
// @Summary      Obtener posición de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la posición"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Suma delta (con signo) a la cantidad. Un resultado negativo se informa como advertencia.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la posición"
// @Param        body  body  dto.AdjustStockRequest  true  "delta, reason"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Adjust(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar mínimo o reservado
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la posición"
// @Param        body  body  dto.UpdateStockRequest  true  "min_quantity, reserved"
// @Success      200   {object}  dto.StockResponse
// @Router       /api/stock/{id} [patch]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar posición de stock
// @Description  Rechazado con 409 si hay unidades reservadas.
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "ID de la posición"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Availability godoc
// @Summary      Disponible para prometer de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Producto"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/stock/availability/{productId} [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	out, err := h.uc.AvailableToPromise(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Issue godoc
// @Summary      Salida de stock a tienda
// @Description  Descuenta el stock y registra activos virtuales instalados en la tienda.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueStockRequest  true  "product_id, warehouse_id, store_id, quantity"
// @Success      201   {object}  dto.IssueStockResponse
// @Router       /api/stock/issue [post]
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.IssueToStore(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
