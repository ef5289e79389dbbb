package receiving

import (
	"fmt"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// Tipos de advertencia; nunca bloquean escaneo ni commit.
const (
	WarningOverReceipt   = "OVER_RECEIPT"
	WarningNoProgress    = "NO_PROGRESS"
	WarningUnmappedItem  = "UNMAPPED_ITEM"
	WarningNegativeTotal = "NEGATIVE_TOTAL"
)

// Warning es una observación para el operador.
type Warning struct {
	Type    string
	ItemID  string
	Message string
}

// ItemProgress resume una línea.
type ItemProgress struct {
	ItemID   string
	Name     string
	SKU      string
	Expected int
	Scanned  int
	Mapped   bool
}

// Progress resume la sesión; es función pura de la bitácora de escaneos.
type Progress struct {
	TotalExpected int
	TotalScanned  int
	Percent       float64 // acotado a [0,100], solo para mostrar
	Items         []ItemProgress
	Warnings      []Warning
}

// Summarize calcula el progreso y las advertencias de la sesión.
func Summarize(s *entity.ReceivingSession) Progress {
	p := Progress{Items: make([]ItemProgress, 0, len(s.Items))}
	for _, it := range s.Items {
		scanned := it.ScannedQuantity()
		p.TotalExpected += it.ExpectedQuantity
		p.TotalScanned += scanned
		p.Items = append(p.Items, ItemProgress{
			ItemID:   it.ID,
			Name:     it.Name,
			SKU:      it.SKU,
			Expected: it.ExpectedQuantity,
			Scanned:  scanned,
			Mapped:   it.ProductID != nil,
		})
		if scanned > it.ExpectedQuantity {
			p.Warnings = append(p.Warnings, Warning{
				Type:    WarningOverReceipt,
				ItemID:  it.ID,
				Message: fmt.Sprintf("%s: recibido %d de %d esperados", label(it), scanned, it.ExpectedQuantity),
			})
		}
		if scanned < 0 {
			p.Warnings = append(p.Warnings, Warning{
				Type:    WarningNegativeTotal,
				ItemID:  it.ID,
				Message: fmt.Sprintf("%s: total escaneado negativo (%d)", label(it), scanned),
			})
		}
		if it.ProductID == nil && scanned != 0 {
			p.Warnings = append(p.Warnings, Warning{
				Type:    WarningUnmappedItem,
				ItemID:  it.ID,
				Message: fmt.Sprintf("%s: sin producto asociado, no se cargará al stock", label(it)),
			})
		}
	}
	if p.TotalScanned == 0 {
		p.Warnings = append(p.Warnings, Warning{Type: WarningNoProgress, Message: "no hay unidades escaneadas"})
	}
	p.Percent = percent(p.TotalScanned, p.TotalExpected)
	return p
}

func percent(scanned, expected int) float64 {
	if expected <= 0 {
		if scanned > 0 {
			return 100
		}
		return 0
	}
	v := float64(scanned) * 100 / float64(expected)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func label(it *entity.ReceivingItem) string {
	if it.SKU != "" {
		return it.SKU
	}
	return it.Name
}

// EnsureOpen rechaza cambios sobre una sesión completada.
func EnsureOpen(s *entity.ReceivingSession) error {
	if s.Status == entity.ReceivingStatusCompleted {
		return domain.ErrSessionCompleted
	}
	return nil
}

// CanCommit valida que la sesión pueda confirmarse: abierta y con al menos una unidad escaneada.
func CanCommit(s *entity.ReceivingSession) error {
	if err := EnsureOpen(s); err != nil {
		return err
	}
	total := 0
	for _, it := range s.Items {
		total += it.ScannedQuantity()
	}
	if total <= 0 {
		return domain.ErrNothingScanned
	}
	return nil
}
