package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// transiciones permitidas del flujo; INSTALLED -> AVAILABLE es la desinstalación
// y RESERVED -> AVAILABLE la liberación al quitar la línea de un envío.
var assetTransitions = map[entity.ProcessStatus][]entity.ProcessStatus{
	entity.ProcessAvailable: {entity.ProcessReserved},
	entity.ProcessReserved:  {entity.ProcessInTransit, entity.ProcessAvailable},
	entity.ProcessInTransit: {entity.ProcessDelivered},
	entity.ProcessDelivered: {entity.ProcessInstalled},
	entity.ProcessInstalled: {entity.ProcessAvailable},
}

// CanTransition indica si el activo puede pasar de from a to.
func CanTransition(from, to entity.ProcessStatus) bool {
	for _, allowed := range assetTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Reserve pasa un activo AVAILABLE sin tienda asignada a RESERVED.
func Reserve(a *entity.Asset) error {
	if a.ProcessStatus != entity.ProcessAvailable || a.StoreID != nil {
		return domain.ErrAssetNotAvailable
	}
	a.ProcessStatus = entity.ProcessReserved
	return nil
}

// Release devuelve un activo RESERVED a AVAILABLE en su bodega.
func Release(a *entity.Asset) error {
	if a.ProcessStatus != entity.ProcessReserved {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, a.ProcessStatus, entity.ProcessAvailable)
	}
	a.ProcessStatus = entity.ProcessAvailable
	return nil
}

// Uninstall pasa un activo INSTALLED a AVAILABLE, quita la tienda y lo deja en la bodega indicada (o sin ubicación).
func Uninstall(a *entity.Asset, warehouseID *string) error {
	if a.ProcessStatus != entity.ProcessInstalled {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, a.ProcessStatus, entity.ProcessAvailable)
	}
	a.ProcessStatus = entity.ProcessAvailable
	a.StoreID = nil
	a.WarehouseID = warehouseID
	return nil
}

// LocationFor devuelve la ubicación que corresponde a un estado del flujo.
func LocationFor(status entity.ProcessStatus, warehouseID, storeID *string) (wh, st *string) {
	switch status {
	case entity.ProcessInTransit:
		return nil, nil
	case entity.ProcessDelivered, entity.ProcessInstalled:
		return nil, storeID
	default:
		return warehouseID, nil
	}
}

// CheckLocation valida la coherencia entre estado del flujo y ubicación.
func CheckLocation(a *entity.Asset) error {
	switch a.ProcessStatus {
	case entity.ProcessInTransit:
		if a.WarehouseID != nil || a.StoreID != nil {
			return fmt.Errorf("%w: activo en tránsito con ubicación", domain.ErrConflict)
		}
	case entity.ProcessDelivered, entity.ProcessInstalled:
		if a.StoreID == nil || a.WarehouseID != nil {
			return fmt.Errorf("%w: activo %s sin tienda", domain.ErrConflict, a.ProcessStatus)
		}
	case entity.ProcessAvailable, entity.ProcessReserved:
		if a.StoreID != nil {
			return fmt.Errorf("%w: activo %s con tienda", domain.ErrConflict, a.ProcessStatus)
		}
	default:
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, a.ProcessStatus)
	}
	return nil
}

// LocationLabel describe la ubicación del activo para la bitácora.
func LocationLabel(warehouseID, storeID *string) string {
	switch {
	case storeID != nil:
		return "store:" + *storeID
	case warehouseID != nil:
		return "warehouse:" + *warehouseID
	default:
		return "in_transit"
	}
}

var conditionAliases = map[string]entity.AssetCondition{
	"NEW":            entity.ConditionNew,
	"GOOD":           entity.ConditionGood,
	"WORKING":        entity.ConditionGood,
	"FAIR":           entity.ConditionFair,
	"NEEDS_REPAIR":   entity.ConditionFair,
	"REPAIR":         entity.ConditionRepair,
	"IN_REPAIR":      entity.ConditionRepair,
	"BROKEN":         entity.ConditionBroken,
	"DECOMMISSIONED": entity.ConditionDecommissioned,
}

// ParseCondition acepta los nombres canónicos y sus alias (WORKING, NEEDS_REPAIR, IN_REPAIR).
func ParseCondition(s string) (entity.AssetCondition, error) {
	c, ok := conditionAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: condición %q", domain.ErrInvalidInput, s)
	}
	return c, nil
}
