package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// ShipmentRepository define el puerto de envíos y sus líneas.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	// GetByID carga el envío con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error

	AddItem(ctx context.Context, item *entity.ShipmentItem) error
	GetItem(ctx context.Context, id string) (*entity.ShipmentItem, error)
	UpdateItem(ctx context.Context, item *entity.ShipmentItem) error
	DeleteItem(ctx context.Context, id string) error
}

// DeliveryRepository define el puerto de entregas (1:1 con envío).
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	GetByShipment(ctx context.Context, shipmentID string) (*entity.Delivery, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error)
	Update(ctx context.Context, delivery *entity.Delivery) error
}
