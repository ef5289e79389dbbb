package ports

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/receiving"
)

// InvoiceLine es una línea leída de la factura del proveedor.
type InvoiceLine struct {
	Name     string
	SKU      string
	Quantity int
	UnitCost decimal.Decimal
}

// InvoiceDocument es el resultado de interpretar una factura de proveedor.
type InvoiceDocument struct {
	InvoiceNumber string
	Supplier      string
	Lines         []InvoiceLine
}

// InvoiceParser convierte el archivo de la factura (XLSX) en líneas esperadas.
type InvoiceParser interface {
	Parse(r io.Reader) (*InvoiceDocument, error)
}

// ReceivingReportGenerator genera el PDF de una sesión de recepción.
type ReceivingReportGenerator interface {
	GenerateReceivingReport(session *entity.ReceivingSession, warehouse *entity.Warehouse, progress receiving.Progress) ([]byte, error)
}
