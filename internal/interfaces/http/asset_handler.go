package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// AssetHandler maneja el registro de activos (protegido).
type AssetHandler struct {
	uc  *inventory.AssetUseCase
	log *logger.Logger
}

// NewAssetHandler construye el handler.
func NewAssetHandler(uc *inventory.AssetUseCase, log *logger.Logger) *AssetHandler {
	return &AssetHandler{uc: uc, log: log}
}

// Register godoc
// @Summary      Registrar activo
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAssetRequest  true  "Serial vacío = se genera"
// @Success      201   {object}  dto.AssetResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets [post]
func (h *AssetHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterAssetRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Register(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Bitácora del activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del activo"
// @Success      200  {array}  dto.AssetHistoryResponse
// @Router       /api/assets/{id}/history [get]
func (h *AssetHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateCondition godoc
// @Summary      Cambiar condición física
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del activo"
// @Param        body  body  dto.UpdateConditionRequest  true  "condition, note"
// @Success      200   {object}  dto.AssetResponse
// @Router       /api/assets/{id}/condition [patch]
func (h *AssetHandler) UpdateCondition(c *fiber.Ctx) error {
	var in dto.UpdateConditionRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.UpdateCondition(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Uninstall godoc
// @Summary      Desinstalar activo de la tienda
// @Description  Requiere confirm=true.
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del activo"
// @Param        body  body  dto.UninstallAssetRequest  true  "warehouse_id, confirm"
// @Success      200   {object}  dto.AssetResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/uninstall [post]
func (h *AssetHandler) Uninstall(c *fiber.Ctx) error {
	var in dto.UninstallAssetRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Uninstall(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Reemplazar activo instalado
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del activo instalado"
// @Param        body  body  dto.ReplaceAssetRequest  true  "new_serial_number, condition, reason"
// @Success      200   {object}  dto.ReplaceAssetResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/replace [post]
func (h *AssetHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceAssetRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Replace(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
