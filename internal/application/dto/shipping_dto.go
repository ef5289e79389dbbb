package dto

import "time"

// CreateShipmentRequest body para POST /api/shipments.
type CreateShipmentRequest struct {
	RequestID   string `json:"request_id" validate:"max=100"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	StoreID     string `json:"store_id" validate:"required"`
}

// AddShipmentItemRequest body para POST /api/shipments/:id/items.
type AddShipmentItemRequest struct {
	AssetID string `json:"asset_id" validate:"required"`
}

// UpdateStatusRequest body para PUT /api/shipments/:id/status y /api/deliveries/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=500"`
}

// AssignCourierRequest body para PUT /api/deliveries/:id/courier.
type AssignCourierRequest struct {
	CourierName    string `json:"courier_name" validate:"required,max=200"`
	CourierPhone   string `json:"courier_phone" validate:"max=50"`
	TrackingNumber string `json:"tracking_number" validate:"max=100"`
}

// ShipmentItemResponse línea del envío.
type ShipmentItemResponse struct {
	ID        string     `json:"id"`
	AssetID   string     `json:"asset_id"`
	Picked    bool       `json:"picked"`
	PickedAt  *time.Time `json:"picked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ShipmentResponse salida de un envío con sus líneas.
type ShipmentResponse struct {
	ID          string                 `json:"id"`
	RequestID   string                 `json:"request_id"`
	WarehouseID string                 `json:"warehouse_id"`
	StoreID     string                 `json:"store_id"`
	Status      string                 `json:"status"`
	Items       []ShipmentItemResponse `json:"items"`
	ShippedAt   *time.Time             `json:"shipped_at,omitempty"`
	CreatedBy   string                 `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID             string     `json:"id"`
	ShipmentID     string     `json:"shipment_id"`
	Status         string     `json:"status"`
	CourierName    string     `json:"courier_name,omitempty"`
	CourierPhone   string     `json:"courier_phone,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	ProblemNote    string     `json:"problem_note,omitempty"`
	PickedUpAt     *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ShipmentStatusResponse salida del cambio de estado; Delivery solo al despachar.
type ShipmentStatusResponse struct {
	Shipment ShipmentResponse  `json:"shipment"`
	Delivery *DeliveryResponse `json:"delivery,omitempty"`
	Assets   int               `json:"assets_moved"`
}
