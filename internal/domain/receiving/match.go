// Package receiving contiene la lógica pura de conciliación de sesiones de recepción:
// coincidencia de códigos, modos de escaneo y cálculo de progreso.
package receiving

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

var folder = cases.Fold()

// foldKey normaliza un código o nombre para comparación sin mayúsculas/minúsculas.
func foldKey(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// MatchItem busca la primera línea cuyo SKU o nombre coincide exactamente con el código
// (ignorando mayúsculas/minúsculas). Devuelve nil si no hay coincidencia.
func MatchItem(items []*entity.ReceivingItem, code string) *entity.ReceivingItem {
	key := foldKey(code)
	if key == "" {
		return nil
	}
	for _, it := range items {
		if it.SKU != "" && foldKey(it.SKU) == key {
			return it
		}
		if it.Name != "" && foldKey(it.Name) == key {
			return it
		}
	}
	return nil
}
