package shipping

import (
	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

func toShipmentResponse(s *entity.Shipment) dto.ShipmentResponse {
	items := make([]dto.ShipmentItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, toShipmentItemResponse(it))
	}
	return dto.ShipmentResponse{
		ID:          s.ID,
		RequestID:   s.RequestID,
		WarehouseID: s.WarehouseID,
		StoreID:     s.StoreID,
		Status:      s.Status,
		Items:       items,
		ShippedAt:   s.ShippedAt,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toShipmentItemResponse(it *entity.ShipmentItem) dto.ShipmentItemResponse {
	return dto.ShipmentItemResponse{
		ID:        it.ID,
		AssetID:   it.AssetID,
		Picked:    it.Picked,
		PickedAt:  it.PickedAt,
		CreatedAt: it.CreatedAt,
	}
}

func toDeliveryResponse(d *entity.Delivery) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		ID:             d.ID,
		ShipmentID:     d.ShipmentID,
		Status:         d.Status,
		CourierName:    d.CourierName,
		CourierPhone:   d.CourierPhone,
		TrackingNumber: d.TrackingNumber,
		ProblemNote:    d.ProblemNote,
		PickedUpAt:     d.PickedUpAt,
		DeliveredAt:    d.DeliveredAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
