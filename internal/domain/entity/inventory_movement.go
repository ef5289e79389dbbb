package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementTypeCreate     = "CREATE"     // alta o incremento por create
	MovementTypeReceipt    = "RECEIPT"    // commit de sesión de recepción
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste manual con delta
	MovementTypeIssue      = "ISSUE"      // salida a tienda (activos virtuales)
)

// InventoryMovement registra cada mutación del libro de stock.
type InventoryMovement struct {
	ID          string
	StockItemID string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    int // con signo
	UnitCost    decimal.Decimal
	Reference   string // id de sesión, tienda, etc.
	Reason      string
	CreatedAt   time.Time
	CreatedBy   string
}
