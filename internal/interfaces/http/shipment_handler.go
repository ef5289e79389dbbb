package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// ShipmentHandler maneja envíos y entregas (protegido).
type ShipmentHandler struct {
	shipments  *shipping.ShipmentUseCase
	deliveries *shipping.DeliveryUseCase
	log        *logger.Logger
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(shipments *shipping.ShipmentUseCase, deliveries *shipping.DeliveryUseCase, log *logger.Logger) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, deliveries: deliveries, log: log}
}

// Create godoc
// @Summary      Crear envío
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "request_id, warehouse_id, store_id"
// @Success      201   {object}  dto.ShipmentResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.shipments.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener envío con sus líneas
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.shipments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Reservar activo en el envío
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del envío"
// @Param        body  body  dto.AddShipmentItemRequest  true  "asset_id"
// @Success      201   {object}  dto.ShipmentItemResponse
// @Failure      409   {object}  dto.ErrorResponse  "ASSET_NOT_AVAILABLE"
// @Router       /api/shipments/{id}/items [post]
func (h *ShipmentHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddShipmentItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.shipments.AddItem(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar línea y liberar el activo
// @Tags         shipments
// @Security     Bearer
// @Param        itemId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/shipments/items/{itemId} [delete]
func (h *ShipmentHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.shipments.RemoveItem(c.UserContext(), GetUserID(c), c.Params("itemId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PickItem godoc
// @Summary      Marcar línea como pickeada
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.ShipmentItemResponse
// @Router       /api/shipments/items/{itemId}/pick [post]
func (h *ShipmentHandler) PickItem(c *fiber.Ctx) error {
	out, err := h.shipments.PickItem(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del envío
// @Description  SHIPPED pone en tránsito los activos reservados y crea la entrega.
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del envío"
// @Param        body  body  dto.UpdateStatusRequest  true  "status"
// @Success      200   {object}  dto.ShipmentStatusResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Router       /api/shipments/{id}/status [put]
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.shipments.UpdateStatus(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ShipmentDelivery godoc
// @Summary      Entrega de un envío
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del envío"
// @Success      200  {object}  dto.DeliveryResponse
// @Router       /api/shipments/{id}/delivery [get]
func (h *ShipmentHandler) ShipmentDelivery(c *fiber.Ctx) error {
	out, err := h.deliveries.GetByShipment(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetDelivery godoc
// @Summary      Obtener entrega
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Router       /api/deliveries/{id} [get]
func (h *ShipmentHandler) GetDelivery(c *fiber.Ctx) error {
	out, err := h.deliveries.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateDeliveryStatus godoc
// @Summary      Cambiar estado de la entrega
// @Description  DELIVERED instala los activos en la tienda destino y cierra el envío.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la entrega"
// @Param        body  body  dto.UpdateStatusRequest  true  "status, note"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/status [put]
func (h *ShipmentHandler) UpdateDeliveryStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.deliveries.UpdateStatus(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AssignCourier godoc
// @Summary      Asignar mensajero
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la entrega"
// @Param        body  body  dto.AssignCourierRequest  true  "courier_name, courier_phone, tracking_number"
// @Success      200   {object}  dto.DeliveryResponse
// @Router       /api/deliveries/{id}/courier [put]
func (h *ShipmentHandler) AssignCourier(c *fiber.Ctx) error {
	var in dto.AssignCourierRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.deliveries.AssignCourier(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
