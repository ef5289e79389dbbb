// Package excel lee facturas de proveedor en XLSX como líneas esperadas de recepción.
package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warehouse-ops/internal/application/ports"
)

var headerAliases = map[string]string{
	"sku":          "sku",
	"codigo":       "sku",
	"código":       "sku",
	"referencia":   "sku",
	"ref":          "sku",
	"name":         "name",
	"product":      "name",
	"product name": "name",
	"producto":     "name",
	"descripcion":  "name",
	"descripción":  "name",
	"nombre":       "name",
	"quantity":     "quantity",
	"qty":          "quantity",
	"cantidad":     "quantity",
	"cant":         "quantity",
	"cant.":        "quantity",
	"unit cost":    "unit_cost",
	"cost":         "unit_cost",
	"costo":        "unit_cost",
	"costo unit":   "unit_cost",
	"costo unit.":  "unit_cost",
	"precio unit":  "unit_cost",
	"precio unit.": "unit_cost",
	"valor unit":   "unit_cost",
}

var metaAliases = map[string]string{
	"factura":     "invoice",
	"factura no":  "invoice",
	"factura no.": "invoice",
	"invoice":     "invoice",
	"invoice no":  "invoice",
	"proveedor":   "supplier",
	"supplier":    "supplier",
}

var _ ports.InvoiceParser = (*InvoiceParser)(nil)

// InvoiceParser implementa ports.InvoiceParser sobre la primera hoja del libro.
// Las filas previas a la cabecera pueden traer "Factura" y "Proveedor" como pares etiqueta/valor.
type InvoiceParser struct{}

// NewInvoiceParser construye el parser.
func NewInvoiceParser() *InvoiceParser { return &InvoiceParser{} }

// Parse lee el XLSX y devuelve las líneas con cantidad positiva.
func (p *InvoiceParser) Parse(reader io.Reader) (*ports.InvoiceDocument, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}

	doc := &ports.InvoiceDocument{}
	headerIdx := -1
	var colMap map[string]int
	for i, cells := range rows {
		m := mapColumns(cells)
		_, hasQty := m["quantity"]
		_, hasName := m["name"]
		_, hasSKU := m["sku"]
		if hasQty && (hasName || hasSKU) {
			headerIdx, colMap = i, m
			break
		}
		readMeta(cells, doc)
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("missing header row: need quantity and name or sku columns")
	}

	for index := headerIdx + 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap, "name"))
		sku := strings.TrimSpace(readCell(cells, colMap, "sku"))
		if name == "" && sku == "" {
			continue
		}
		qty, err := parseInt(readCell(cells, colMap, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid quantity: %w", index+1, err)
		}
		if qty < 0 {
			return nil, fmt.Errorf("row %d invalid quantity: must not be negative", index+1)
		}
		cost := decimal.Zero
		if raw := strings.TrimSpace(readCell(cells, colMap, "unit_cost")); raw != "" {
			cost, err = parseDecimal(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d invalid unit cost: %w", index+1, err)
			}
		}
		doc.Lines = append(doc.Lines, ports.InvoiceLine{
			Name:     name,
			SKU:      sku,
			Quantity: qty,
			UnitCost: cost,
		})
	}
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return doc, nil
}

func readMeta(cells []string, doc *ports.InvoiceDocument) {
	for i := 0; i+1 < len(cells); i++ {
		key, ok := metaAliases[strings.TrimSuffix(normalizeHeader(cells[i]), ":")]
		if !ok {
			continue
		}
		value := strings.TrimSpace(cells[i+1])
		switch key {
		case "invoice":
			doc.InvoiceNumber = value
		case "supplier":
			doc.Supplier = value
		}
	}
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, colMap map[string]int, key string) string {
	idx, ok := colMap[key]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("value is empty")
	}
	asFloat, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.Mod(asFloat, 1) != 0 {
		return 0, fmt.Errorf("must be an integer")
	}
	return int(asFloat), nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	value = strings.TrimPrefix(value, "$")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	return d, nil
}
