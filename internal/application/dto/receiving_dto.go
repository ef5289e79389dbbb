package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivingItemRequest línea esperada al abrir una sesión o agregarla después.
// NewProduct exige ProductID o un SKU resoluble en el catálogo.
type ReceivingItemRequest struct {
	Name             string           `json:"name" validate:"max=200"`
	SKU              string           `json:"sku" validate:"max=100"`
	ProductID        *string          `json:"product_id,omitempty"`
	ExpectedQuantity int              `json:"expected_quantity" validate:"min=0"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	NewProduct       bool             `json:"new_product"`
}

// OpenSessionRequest body para POST /api/receiving/sessions.
type OpenSessionRequest struct {
	WarehouseID   string                 `json:"warehouse_id" validate:"required"`
	InvoiceNumber string                 `json:"invoice_number" validate:"max=100"`
	Supplier      string                 `json:"supplier" validate:"max=200"`
	Items         []ReceivingItemRequest `json:"items" validate:"dive"`
}

// MapItemRequest body para PUT /api/receiving/items/:itemId/product.
type MapItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// ScanRequest body para POST /api/receiving/sessions/:id/scans.
type ScanRequest struct {
	Code string `json:"code" validate:"required,max=200"`
}

// ManualEntryRequest body para POST /api/receiving/sessions/:id/manual. Quantity con signo.
type ManualEntryRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// ConfirmBoxRequest body para POST /api/receiving/sessions/:id/mode/box/confirm.
type ConfirmBoxRequest struct {
	Multiplier int `json:"multiplier"`
}

// ScanResponse registro de la bitácora de escaneos.
type ScanResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Quantity   int       `json:"quantity"`
	IsManual   bool      `json:"is_manual"`
	Code       string    `json:"code"`
	OperatorID string    `json:"operator_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReceivingItemResponse línea con su total escaneado derivado.
type ReceivingItemResponse struct {
	ID               string          `json:"id"`
	Position         int             `json:"position"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	ProductID        *string         `json:"product_id"`
	ExpectedQuantity int             `json:"expected_quantity"`
	ScannedQuantity  int             `json:"scanned_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Scans            []ScanResponse  `json:"scans"`
}

// SessionResponse sesión completa con líneas y escaneos.
type SessionResponse struct {
	ID            string                  `json:"id"`
	WarehouseID   string                  `json:"warehouse_id"`
	Status        string                  `json:"status"`
	InvoiceNumber string                  `json:"invoice_number"`
	Supplier      string                  `json:"supplier"`
	CreatedBy     string                  `json:"created_by"`
	Items         []ReceivingItemResponse `json:"items"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// WarningDTO advertencia no bloqueante.
type WarningDTO struct {
	Type    string `json:"type"`
	ItemID  string `json:"item_id,omitempty"`
	Message string `json:"message"`
}

// ItemProgressDTO progreso de una línea.
type ItemProgressDTO struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Expected int    `json:"expected"`
	Scanned  int    `json:"scanned"`
	Mapped   bool   `json:"mapped"`
}

// ProgressResponse salida de GET /api/receiving/sessions/:id/progress.
type ProgressResponse struct {
	SessionID     string            `json:"session_id"`
	Status        string            `json:"status"`
	TotalExpected int               `json:"total_expected"`
	TotalScanned  int               `json:"total_scanned"`
	Percent       float64           `json:"percent"`
	Items         []ItemProgressDTO `json:"items"`
	Warnings      []WarningDTO      `json:"warnings"`
}

// ScanResultResponse salida de un escaneo o ingreso manual.
type ScanResultResponse struct {
	Scan     ScanResponse     `json:"scan"`
	Progress ProgressResponse `json:"progress"`
}

// ScanModeResponse configuración de escaneo del operador en la sesión.
type ScanModeResponse struct {
	Mode        string `json:"mode"` // single | box
	Multiplier  int    `json:"multiplier"`
	Pending     bool   `json:"pending"`
	Suggestions []int  `json:"suggestions,omitempty"`
}

// CommitLineDTO delta aplicado al libro de stock por una línea.
type CommitLineDTO struct {
	ItemID        string `json:"item_id"`
	ProductID     string `json:"product_id"`
	StockItemID   string `json:"stock_item_id"`
	Quantity      int    `json:"quantity"`
	NegativeStock bool   `json:"negative_stock,omitempty"`
}

// CommitResponse salida de POST /api/receiving/sessions/:id/commit.
type CommitResponse struct {
	Session  SessionResponse `json:"session"`
	Applied  []CommitLineDTO `json:"applied"`
	Warnings []WarningDTO    `json:"warnings"`
}
