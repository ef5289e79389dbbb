package inventory

import (
	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/inventory"
)

func toStockResponse(s *entity.StockItem) dto.StockResponse {
	return dto.StockResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		WarehouseID:  s.WarehouseID,
		Quantity:     s.Quantity,
		Reserved:     s.Reserved,
		MinQuantity:  s.MinQuantity,
		Available:    s.Available(),
		Low:          inventory.IsLow(s),
		Out:          inventory.IsOut(s),
		OverReserved: inventory.OverReserved(s),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toAssetResponse(a *entity.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:            a.ID,
		SerialNumber:  a.SerialNumber,
		ProductID:     a.ProductID,
		Condition:     string(a.Condition),
		ProcessStatus: string(a.ProcessStatus),
		WarehouseID:   a.WarehouseID,
		StoreID:       a.StoreID,
		Location:      inventory.LocationLabel(a.WarehouseID, a.StoreID),
		Virtual:       a.Virtual,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toHistoryResponse(h *entity.AssetHistory) dto.AssetHistoryResponse {
	return dto.AssetHistoryResponse{
		ID:          h.ID,
		Action:      h.Action,
		Description: h.Description,
		Location:    h.Location,
		WarehouseID: h.WarehouseID,
		StoreID:     h.StoreID,
		CreatedBy:   h.CreatedBy,
		CreatedAt:   h.CreatedAt,
	}
}
