// Package pdf genera el acta de recepción de mercancía de una sesión.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega + Proveedor  │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Descripción | Esperado | Recibido | Dif.       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Esperado / Recibido / Avance                       │
//	│  ADVERTENCIAS                                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/receiving"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 180, Green: 90, Blue: 0}
)

var _ ports.ReceivingReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReceivingReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateReceivingReport genera el acta de recepción y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceivingReport(
	session *entity.ReceivingSession,
	warehouse *entity.Warehouse,
	progress receiving.Progress,
) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("pdf: sesión requerida")
	}
	whName := session.WarehouseID
	if warehouse != nil {
		whName = warehouse.Name
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de recepción", true).
		WithAuthor(whName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(session, whName, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(progress.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(progress))

	if len(progress.Warnings) > 0 {
		m.AddRows(line.NewRow(3))
		for _, r := range warningRows(progress.Warnings) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega + proveedor (izq) y factura + estado + fecha (der).
func headerRow(s *entity.ReceivingSession, warehouse string, now time.Time) core.Row {
	fecha := now.Format("02/01/2006 15:04")
	if s.CompletedAt != nil {
		fecha = s.CompletedAt.Format("02/01/2006 15:04")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(warehouse, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proveedor: "+nonEmpty(s.Supplier, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ACTA DE RECEPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Factura "+nonEmpty(s.InvoiceNumber, "s/n"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(s.Status+" · "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Descripción", 5, align.Left),
		h("Esperado", 2, align.Right),
		h("Recibido", 2, align.Right),
		h("Dif.", 1, align.Right),
	)
}

// tableDetailRows: una fila por línea de la sesión.
func tableDetailRows(items []receiving.ItemProgress) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Name
		if !it.Mapped {
			name += " (sin producto)"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(it.SKU, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(formatQty(it.Expected),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(formatQty(it.Scanned),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(fmt.Sprintf("%+d", it.Scanned-it.Expected),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(p receiving.Progress) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Esperado:"),
			label("Recibido:"),
			label("Avance:"),
		),
		col.New(3).Add(
			value(formatQty(p.TotalExpected)),
			value(formatQty(p.TotalScanned)),
			value(fmt.Sprintf("%.0f%%", p.Percent)),
		),
	)
}

// warningRows: advertencias de la conciliación.
func warningRows(warnings []receiving.Warning) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ADVERTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWarn, Top: 1,
			}),
		)),
	}
	for _, w := range warnings {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("• "+w.Message, props.Text{Size: 7.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatQty(n int) string {
	s := fmt.Sprintf("%d", n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
