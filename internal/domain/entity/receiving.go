package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de recepción.
const (
	ReceivingStatusDraft      = "DRAFT"
	ReceivingStatusInProgress = "IN_PROGRESS"
	ReceivingStatusCompleted  = "COMPLETED" // terminal
)

// ReceivingSession es un evento de ingreso de mercancía contra una factura de proveedor.
type ReceivingSession struct {
	ID            string
	WarehouseID   string
	Status        string
	InvoiceNumber string
	Supplier      string
	CreatedBy     string
	Items         []*ReceivingItem
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReceivingItem es una línea esperada dentro de la sesión.
type ReceivingItem struct {
	ID               string
	SessionID        string
	Position         int
	Name             string
	SKU              string
	ProductID        *string
	ExpectedQuantity int
	UnitCost         decimal.Decimal
	Scans            []*Scan // orden de llegada
	CreatedAt        time.Time
}

// ScannedQuantity suma las cantidades de la bitácora de escaneos; nunca se guarda aparte.
func (i *ReceivingItem) ScannedQuantity() int {
	total := 0
	for _, s := range i.Scans {
		total += s.Quantity
	}
	return total
}

// Scan es una entrada de la bitácora de escaneos de una línea.
type Scan struct {
	ID         string
	ItemID     string
	Seq        int64
	Quantity   int // con signo
	IsManual   bool
	Code       string
	OperatorID string
	CreatedAt  time.Time
}
