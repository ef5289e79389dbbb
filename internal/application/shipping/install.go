package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/inventory"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

// transition mueve en bloque los activos del envío de from a to y registra la bitácora de cada uno.
func transition(
	ctx context.Context,
	assetRepo repository.AssetRepository,
	shipmentID string,
	from, to entity.ProcessStatus,
	loc repository.Location,
	action, description, userID string,
	now time.Time,
) ([]*entity.Asset, error) {
	if !inventory.CanTransition(from, to) {
		return nil, fmt.Errorf("transición de activos %s -> %s no permitida", from, to)
	}
	moved, err := assetRepo.TransitionByShipment(ctx, shipmentID, from, to, loc)
	if err != nil {
		return nil, err
	}
	for _, a := range moved {
		if err := assetRepo.AppendHistory(ctx, inventory.NewHistory(a, action, description, userID, now)); err != nil {
			return nil, err
		}
	}
	return moved, nil
}

// installShipment finaliza un envío entregado: IN_TRANSIT -> DELIVERED -> INSTALLED en la tienda destino
// (dos registros de bitácora por activo) y el envío queda DELIVERED.
func installShipment(
	ctx context.Context,
	shipmentRepo repository.ShipmentRepository,
	assetRepo repository.AssetRepository,
	s *entity.Shipment,
	userID string,
	now time.Time,
) ([]*entity.Asset, error) {
	storeID := s.StoreID
	loc := repository.Location{StoreID: &storeID}
	if _, err := transition(ctx, assetRepo, s.ID, entity.ProcessInTransit, entity.ProcessDelivered, loc,
		entity.AssetActionDelivered, fmt.Sprintf("entregado en tienda %s", storeID), userID, now); err != nil {
		return nil, err
	}
	installed, err := transition(ctx, assetRepo, s.ID, entity.ProcessDelivered, entity.ProcessInstalled, loc,
		entity.AssetActionInstalled, fmt.Sprintf("instalado en tienda %s", storeID), userID, now)
	if err != nil {
		return nil, err
	}
	s.Status = entity.ShipmentStatusDelivered
	s.UpdatedAt = now
	if err := shipmentRepo.Update(ctx, s); err != nil {
		return nil, err
	}
	return installed, nil
}
