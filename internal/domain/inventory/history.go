package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// NewHistory arma el registro de bitácora con la ubicación actual del activo.
func NewHistory(a *entity.Asset, action, description, createdBy string, now time.Time) *entity.AssetHistory {
	return &entity.AssetHistory{
		ID:          uuid.New().String(),
		AssetID:     a.ID,
		Action:      action,
		Description: description,
		Location:    LocationLabel(a.WarehouseID, a.StoreID),
		WarehouseID: a.WarehouseID,
		StoreID:     a.StoreID,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}
}
