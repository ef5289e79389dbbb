// Package shipping define las tablas de transición de envíos y entregas.
package shipping

import (
	"fmt"
	"strings"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

var shipmentTransitions = map[string][]string{
	entity.ShipmentStatusDraft:   {entity.ShipmentStatusPicking, entity.ShipmentStatusPacked, entity.ShipmentStatusShipped, entity.ShipmentStatusCancelled},
	entity.ShipmentStatusPicking: {entity.ShipmentStatusPacked, entity.ShipmentStatusShipped, entity.ShipmentStatusCancelled},
	entity.ShipmentStatusPacked:  {entity.ShipmentStatusShipped, entity.ShipmentStatusCancelled},
	entity.ShipmentStatusShipped: {entity.ShipmentStatusDelivered},
}

// orden de avance de una entrega; PROBLEM puede retomar cualquier estado posterior a CREATED.
var deliveryFlow = []string{
	entity.DeliveryStatusCreated,
	entity.DeliveryStatusCourierAssigned,
	entity.DeliveryStatusPickedUp,
	entity.DeliveryStatusInTransit,
	entity.DeliveryStatusDelivered,
}

var shipmentAliases = map[string]string{
	"PENDING": entity.ShipmentStatusDraft,
	"READY":   entity.ShipmentStatusPacked,
}

// ParseShipmentStatus normaliza un estado de envío aceptando los alias PENDING y READY.
func ParseShipmentStatus(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := shipmentAliases[s]; ok {
		return alias, nil
	}
	switch s {
	case entity.ShipmentStatusDraft, entity.ShipmentStatusPicking, entity.ShipmentStatusPacked,
		entity.ShipmentStatusShipped, entity.ShipmentStatusDelivered, entity.ShipmentStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: estado de envío %q", domain.ErrInvalidInput, s)
}

// ParseDeliveryStatus valida un estado de entrega.
func ParseDeliveryStatus(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case entity.DeliveryStatusProblem, entity.DeliveryStatusCancelled:
		return s, nil
	}
	for _, st := range deliveryFlow {
		if st == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: estado de entrega %q", domain.ErrInvalidInput, s)
}

// CanShipmentTransition indica si el envío puede pasar de from a to.
func CanShipmentTransition(from, to string) bool {
	for _, allowed := range shipmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ShipmentEditable indica si aún se pueden agregar líneas al envío.
func ShipmentEditable(status string) bool {
	return status == entity.ShipmentStatusDraft || status == entity.ShipmentStatusPicking
}

// ShipmentBeforeShipped indica si el envío todavía no salió de bodega.
func ShipmentBeforeShipped(status string) bool {
	return status == entity.ShipmentStatusDraft || status == entity.ShipmentStatusPicking || status == entity.ShipmentStatusPacked
}

// IsDeliveryTerminal indica si la entrega ya no admite cambios.
func IsDeliveryTerminal(status string) bool {
	return status == entity.DeliveryStatusDelivered || status == entity.DeliveryStatusCancelled
}

func flowIndex(status string) int {
	for i, st := range deliveryFlow {
		if st == status {
			return i
		}
	}
	return -1
}

// CanDeliveryTransition aplica la tabla de entregas:
// avance de un paso en el flujo, PROBLEM o CANCELLED desde cualquier estado no terminal,
// y desde PROBLEM cualquier estado del flujo posterior a CREATED.
func CanDeliveryTransition(from, to string) bool {
	if IsDeliveryTerminal(from) || from == to {
		return false
	}
	if to == entity.DeliveryStatusProblem || to == entity.DeliveryStatusCancelled {
		return true
	}
	target := flowIndex(to)
	if target < 0 {
		return false
	}
	if from == entity.DeliveryStatusProblem {
		return target > 0
	}
	return target == flowIndex(from)+1
}
