package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// Location es la ubicación destino de una transición masiva (ambos nil = en tránsito).
type Location struct {
	WarehouseID *string
	StoreID     *string
}

// AssetRepository define el puerto del registro de activos y su bitácora.
type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	GetBySerial(ctx context.Context, serial string) (*entity.Asset, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Asset, error)
	Update(ctx context.Context, asset *entity.Asset) error

	// TransitionByShipment mueve de from a to todos los activos del envío que estén en from,
	// fijando la ubicación indicada. Devuelve los activos afectados.
	TransitionByShipment(ctx context.Context, shipmentID string, from, to entity.ProcessStatus, loc Location) ([]*entity.Asset, error)

	CountAvailableByProduct(ctx context.Context, productID string) (int, error)

	AppendHistory(ctx context.Context, h *entity.AssetHistory) error
	ListHistory(ctx context.Context, assetID string) ([]*entity.AssetHistory, error)
}
