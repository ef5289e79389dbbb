package ports

import (
	"context"
	"time"
)

// Tipos de evento publicados por los casos de uso.
const (
	EventStockCreated      = "stock.created"
	EventStockAdjusted     = "stock.adjusted"
	EventStockNegative     = "stock.negative"
	EventStockIssued       = "stock.issued"
	EventAssetRegistered   = "asset.registered"
	EventAssetUninstalled  = "asset.uninstalled"
	EventAssetReplaced     = "asset.replaced"
	EventAssetCondition    = "asset.condition_changed"
	EventReceivingScanned  = "receiving.scanned"
	EventReceivingCommit   = "receiving.committed"
	EventShipmentStatus    = "shipment.status_changed"
	EventShipmentShipped   = "shipment.shipped"
	EventDeliveryStatus    = "delivery.status_changed"
	EventDeliveryCompleted = "delivery.completed"
)

// Event es una notificación/auditoría de negocio. Message es legible para el operador.
type Event struct {
	Type       string            `json:"type"`
	Entity     string            `json:"entity"`
	EntityID   string            `json:"entity_id"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notifier es el puerto de salida hacia sumideros de notificación (log, Kafka, métricas).
// Se invoca siempre después del commit; un error nunca revierte la operación.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NopNotifier descarta los eventos.
type NopNotifier struct{}

// Notify implementa Notifier.
func (NopNotifier) Notify(context.Context, Event) error { return nil }

// Publish envía los eventos en orden; un error se reporta a onErr y no detiene el resto.
func Publish(ctx context.Context, n Notifier, events []Event, onErr func(Event, error)) {
	for _, e := range events {
		if e.OccurredAt.IsZero() {
			e.OccurredAt = time.Now()
		}
		if err := n.Notify(ctx, e); err != nil && onErr != nil {
			onErr(e, err)
		}
	}
}
