package entity

import "time"

// Estados de un envío.
const (
	ShipmentStatusDraft     = "DRAFT"
	ShipmentStatusPicking   = "PICKING"
	ShipmentStatusPacked    = "PACKED"
	ShipmentStatusShipped   = "SHIPPED"
	ShipmentStatusDelivered = "DELIVERED"
	ShipmentStatusCancelled = "CANCELLED"
)

// Shipment agrupa los activos de una solicitud hacia una tienda destino.
type Shipment struct {
	ID          string
	RequestID   string
	WarehouseID string
	StoreID     string
	Status      string
	Items       []*ShipmentItem
	ShippedAt   *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShipmentItem envuelve un activo dentro del envío.
type ShipmentItem struct {
	ID         string
	ShipmentID string
	AssetID    string
	Picked     bool
	PickedAt   *time.Time
	CreatedAt  time.Time
}

// Estados de una entrega.
const (
	DeliveryStatusCreated         = "CREATED"
	DeliveryStatusCourierAssigned = "COURIER_ASSIGNED"
	DeliveryStatusPickedUp        = "PICKED_UP"
	DeliveryStatusInTransit       = "IN_TRANSIT"
	DeliveryStatusDelivered       = "DELIVERED"
	DeliveryStatusProblem         = "PROBLEM"
	DeliveryStatusCancelled       = "CANCELLED"
)

// Delivery es el sucesor 1:1 de un envío despachado.
type Delivery struct {
	ID             string
	ShipmentID     string
	Status         string
	CourierName    string
	CourierPhone   string
	TrackingNumber string
	ProblemNote    string
	PickedUpAt     *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
