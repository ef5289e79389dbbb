package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// ReceivingHandler maneja las sesiones de recepción por escaneo (protegido).
// El usuario del token es el operador: el modo de escaneo es propio de cada operador en la sesión.
type ReceivingHandler struct {
	uc  *receiving.SessionUseCase
	log *logger.Logger
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(uc *receiving.SessionUseCase, log *logger.Logger) *ReceivingHandler {
	return &ReceivingHandler{uc: uc, log: log}
}

// Open godoc
// @Summary      Abrir sesión de recepción
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "warehouse_id, invoice_number, supplier, items"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receiving/sessions [post]
func (h *ReceivingHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Open(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Import godoc
// @Summary      Abrir sesión desde la factura XLSX del proveedor
// @Tags         receiving
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        warehouse_id  query     string  false "Bodega destino (por defecto la del token)"
// @Param        file          formData  file    true  "Factura .xlsx"
// @Success      201  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receiving/sessions/import [post]
func (h *ReceivingHandler) Import(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id", GetWarehouseID(c))
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo 'file' requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()
	out, err := h.uc.OpenFromInvoice(c.UserContext(), GetUserID(c), warehouseID, f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener sesión con líneas y escaneos
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/receiving/sessions/{id} [get]
func (h *ReceivingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Progress godoc
// @Summary      Progreso y advertencias de la sesión
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ProgressResponse
// @Router       /api/receiving/sessions/{id}/progress [get]
func (h *ReceivingHandler) Progress(c *fiber.Ctx) error {
	out, err := h.uc.Progress(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Acta de recepción en PDF
// @Tags         receiving
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Router       /api/receiving/sessions/{id}/report [get]
func (h *ReceivingHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Report(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recepcion-`+id+`.pdf"`)
	return c.Send(pdf)
}

// Delete godoc
// @Summary      Eliminar sesión no completada
// @Tags         receiving
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receiving/sessions/{id} [delete]
func (h *ReceivingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Agregar línea esperada
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la sesión"
// @Param        body  body  dto.ReceivingItemRequest  true  "Línea"
// @Success      201   {object}  dto.ReceivingItemResponse
// @Router       /api/receiving/sessions/{id}/items [post]
func (h *ReceivingHandler) AddItem(c *fiber.Ctx) error {
	var in dto.ReceivingItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MapItem godoc
// @Summary      Asociar línea a un producto del catálogo
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string              true  "ID de la línea"
// @Param        body    body  dto.MapItemRequest  true  "product_id"
// @Success      200     {object}  dto.ReceivingItemResponse
// @Router       /api/receiving/items/{itemId}/product [put]
func (h *ReceivingHandler) MapItem(c *fiber.Ctx) error {
	var in dto.MapItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.MapItem(c.UserContext(), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Scan godoc
// @Summary      Registrar escaneo de código de barras
// @Description  Coincidencia exacta sin distinguir mayúsculas contra SKU o nombre. En modo caja suma N.
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la sesión"
// @Param        body  body  dto.ScanRequest  true  "code"
// @Success      201   {object}  dto.ScanResultResponse
// @Failure      404   {object}  dto.ErrorResponse  "SCAN_NO_MATCH"
// @Router       /api/receiving/sessions/{id}/scans [post]
func (h *ReceivingHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Scan(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ManualEntry godoc
// @Summary      Ingreso manual de cantidad (con signo)
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  dto.ManualEntryRequest  true  "item_id, quantity"
// @Success      201   {object}  dto.ScanResultResponse
// @Router       /api/receiving/sessions/{id}/manual [post]
func (h *ReceivingHandler) ManualEntry(c *fiber.Ctx) error {
	var in dto.ManualEntryRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.ManualEntry(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteScan godoc
// @Summary      Eliminar un escaneo
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        scanId  path  string  true  "ID del escaneo"
// @Success      200     {object}  dto.ProgressResponse
// @Router       /api/receiving/scans/{scanId} [delete]
func (h *ReceivingHandler) DeleteScan(c *fiber.Ctx) error {
	out, err := h.uc.DeleteScan(c.UserContext(), c.Params("scanId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Mode godoc
// @Summary      Modo de escaneo del operador
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ScanModeResponse
// @Router       /api/receiving/sessions/{id}/mode [get]
func (h *ReceivingHandler) Mode(c *fiber.Ctx) error {
	out, err := h.uc.Mode(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RequestBox godoc
// @Summary      Abrir diálogo de modo caja
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ScanModeResponse
// @Router       /api/receiving/sessions/{id}/mode/box [post]
func (h *ReceivingHandler) RequestBox(c *fiber.Ctx) error {
	out, err := h.uc.RequestBox(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ConfirmBox godoc
// @Summary      Confirmar multiplicador de caja
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la sesión"
// @Param        body  body  dto.ConfirmBoxRequest  true  "multiplier >= 1"
// @Success      200   {object}  dto.ScanModeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receiving/sessions/{id}/mode/box/confirm [post]
func (h *ReceivingHandler) ConfirmBox(c *fiber.Ctx) error {
	var in dto.ConfirmBoxRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.ConfirmBox(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CancelBox godoc
// @Summary      Cancelar diálogo de modo caja
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ScanModeResponse
// @Router       /api/receiving/sessions/{id}/mode/box/cancel [post]
func (h *ReceivingHandler) CancelBox(c *fiber.Ctx) error {
	out, err := h.uc.CancelBox(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DisableBox godoc
// @Summary      Volver a modo unitario
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ScanModeResponse
// @Router       /api/receiving/sessions/{id}/mode/box [delete]
func (h *ReceivingHandler) DisableBox(c *fiber.Ctx) error {
	out, err := h.uc.DisableBox(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar recepción en el libro de stock
// @Description  Una sola transacción para todas las líneas asociadas; la sesión pasa a COMPLETED.
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CommitResponse
// @Failure      409  {object}  dto.ErrorResponse  "NOTHING_SCANNED | SESSION_COMPLETED"
// @Router       /api/receiving/sessions/{id}/commit [post]
func (h *ReceivingHandler) Commit(c *fiber.Ctx) error {
	out, err := h.uc.Commit(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
