package shipping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops/internal/domain/shipping"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// DeliveryUseCase sigue la entrega de un envío despachado hasta la tienda.
type DeliveryUseCase struct {
	txRunner     TxRunner
	deliveryRepo repository.DeliveryRepository
	notifier     ports.Notifier
	log          *logger.Logger
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	txRunner TxRunner,
	deliveryRepo repository.DeliveryRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *DeliveryUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DeliveryUseCase{txRunner: txRunner, deliveryRepo: deliveryRepo, notifier: notifier, log: log}
}

// Get obtiene una entrega por ID.
func (uc *DeliveryUseCase) Get(ctx context.Context, id string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := toDeliveryResponse(d)
	return &out, nil
}

// GetByShipment obtiene la entrega de un envío.
func (uc *DeliveryUseCase) GetByShipment(ctx context.Context, shipmentID string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := toDeliveryResponse(d)
	return &out, nil
}

// UpdateStatus aplica la tabla de transiciones de la entrega. Repetir el estado actual no hace nada.
// DELIVERED instala los activos del envío en la tienda y deja el envío DELIVERED en la misma transacción.
func (uc *DeliveryUseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.UpdateStatusRequest) (*dto.DeliveryResponse, error) {
	to, err := shipping.ParseDeliveryStatus(in.Status)
	if err != nil {
		return nil, err
	}
	var (
		delivery  *entity.Delivery
		installed []*entity.Asset
		from      string
	)
	now := time.Now()
	err = uc.txRunner.RunShipping(ctx, func(
		shipmentRepo repository.ShipmentRepository,
		deliveryRepo repository.DeliveryRepository,
		assetRepo repository.AssetRepository,
	) error {
		d, err := deliveryRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		delivery, from = d, d.Status
		if d.Status == to {
			return nil
		}
		if !shipping.CanDeliveryTransition(d.Status, to) {
			return fmt.Errorf("%w: entrega %s -> %s", domain.ErrInvalidTransition, d.Status, to)
		}

		switch to {
		case entity.DeliveryStatusPickedUp:
			d.PickedUpAt = &now
		case entity.DeliveryStatusProblem:
			d.ProblemNote = strings.TrimSpace(in.Note)
		case entity.DeliveryStatusDelivered:
			s, err := shipmentRepo.GetForUpdate(ctx, d.ShipmentID)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("%w: envío de la entrega", domain.ErrNotFound)
			}
			if s.Status != entity.ShipmentStatusShipped {
				return fmt.Errorf("%w: envío en estado %s", domain.ErrInvalidTransition, s.Status)
			}
			installed, err = installShipment(ctx, shipmentRepo, assetRepo, s, userID, now)
			if err != nil {
				return err
			}
			d.DeliveredAt = &now
		}
		d.Status = to
		d.UpdatedAt = now
		return deliveryRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	if from != to {
		events := []ports.Event{{
			Type:       ports.EventDeliveryStatus,
			Entity:     "delivery",
			EntityID:   delivery.ID,
			Message:    fmt.Sprintf("entrega %s -> %s", from, to),
			Attributes: map[string]string{"from": from, "to": to, "shipment_id": delivery.ShipmentID},
		}}
		if to == entity.DeliveryStatusDelivered {
			events = append(events, ports.Event{
				Type:       ports.EventDeliveryCompleted,
				Entity:     "delivery",
				EntityID:   delivery.ID,
				Message:    fmt.Sprintf("%d activos instalados en tienda", len(installed)),
				Attributes: map[string]string{"shipment_id": delivery.ShipmentID},
			})
		}
		if to == entity.DeliveryStatusProblem {
			uc.log.Warn().Str("delivery_id", delivery.ID).Str("note", delivery.ProblemNote).Msg("entrega con problema")
		}
		uc.publish(ctx, events...)
	}
	out := toDeliveryResponse(delivery)
	return &out, nil
}

// AssignCourier registra los datos del mensajero. Desde CREATED o PROBLEM pasa a COURIER_ASSIGNED;
// en estados posteriores solo actualiza los datos.
func (uc *DeliveryUseCase) AssignCourier(ctx context.Context, id string, in dto.AssignCourierRequest) (*dto.DeliveryResponse, error) {
	name := strings.TrimSpace(in.CourierName)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		delivery *entity.Delivery
		from     string
	)
	err := uc.txRunner.RunShipping(ctx, func(
		_ repository.ShipmentRepository,
		deliveryRepo repository.DeliveryRepository,
		_ repository.AssetRepository,
	) error {
		d, err := deliveryRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if shipping.IsDeliveryTerminal(d.Status) {
			return fmt.Errorf("%w: entrega en estado %s", domain.ErrInvalidTransition, d.Status)
		}
		from = d.Status
		d.CourierName = name
		d.CourierPhone = strings.TrimSpace(in.CourierPhone)
		d.TrackingNumber = strings.TrimSpace(in.TrackingNumber)
		if shipping.CanDeliveryTransition(d.Status, entity.DeliveryStatusCourierAssigned) {
			d.Status = entity.DeliveryStatusCourierAssigned
		}
		d.UpdatedAt = time.Now()
		delivery = d
		return deliveryRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	if from != delivery.Status {
		uc.publish(ctx, ports.Event{
			Type:       ports.EventDeliveryStatus,
			Entity:     "delivery",
			EntityID:   delivery.ID,
			Message:    fmt.Sprintf("mensajero %s asignado", delivery.CourierName),
			Attributes: map[string]string{"from": from, "to": delivery.Status, "shipment_id": delivery.ShipmentID},
		})
	}
	out := toDeliveryResponse(delivery)
	return &out, nil
}

func (uc *DeliveryUseCase) publish(ctx context.Context, events ...ports.Event) {
	ports.Publish(ctx, uc.notifier, events, func(e ports.Event, err error) {
		uc.log.Warn().Err(err).Str("event", e.Type).Msg("no se pudo publicar el evento")
	})
}
