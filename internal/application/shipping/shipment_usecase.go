package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/inventory"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops/internal/domain/shipping"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// ShipmentUseCase arma envíos hacia tiendas: reserva activos, registra el picking
// y al despachar mueve en bloque los activos y crea la entrega.
type ShipmentUseCase struct {
	txRunner      TxRunner
	shipmentRepo  repository.ShipmentRepository
	warehouseRepo repository.WarehouseRepository
	storeRepo     repository.StoreRepository
	notifier      ports.Notifier
	log           *logger.Logger
}

// NewShipmentUseCase construye el caso de uso.
func NewShipmentUseCase(
	txRunner TxRunner,
	shipmentRepo repository.ShipmentRepository,
	warehouseRepo repository.WarehouseRepository,
	storeRepo repository.StoreRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *ShipmentUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ShipmentUseCase{
		txRunner:      txRunner,
		shipmentRepo:  shipmentRepo,
		warehouseRepo: warehouseRepo,
		storeRepo:     storeRepo,
		notifier:      notifier,
		log:           log,
	}
}

// Create crea un envío DRAFT desde una bodega hacia una tienda.
func (uc *ShipmentUseCase) Create(ctx context.Context, userID string, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if in.WarehouseID == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: bodega", domain.ErrNotFound)
	}
	st, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("%w: tienda", domain.ErrNotFound)
	}

	now := time.Now()
	s := &entity.Shipment{
		ID:          uuid.New().String(),
		RequestID:   in.RequestID,
		WarehouseID: in.WarehouseID,
		StoreID:     in.StoreID,
		Status:      entity.ShipmentStatusDraft,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.shipmentRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toShipmentResponse(s)
	return &out, nil
}

// Get obtiene el envío con sus líneas.
func (uc *ShipmentUseCase) Get(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	s, err := uc.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := toShipmentResponse(s)
	return &out, nil
}

// AddItem reserva un activo AVAILABLE sin tienda y lo agrega al envío en la misma transacción.
// Un activo no disponible se rechaza con ErrAssetNotAvailable y no se crea la línea.
func (uc *ShipmentUseCase) AddItem(ctx context.Context, userID, shipmentID string, in dto.AddShipmentItemRequest) (*dto.ShipmentItemResponse, error) {
	if in.AssetID == "" {
		return nil, domain.ErrInvalidInput
	}
	var item *entity.ShipmentItem
	now := time.Now()
	err := uc.txRunner.RunShipping(ctx, func(
		shipmentRepo repository.ShipmentRepository,
		_ repository.DeliveryRepository,
		assetRepo repository.AssetRepository,
	) error {
		s, err := shipmentRepo.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !shipping.ShipmentEditable(s.Status) {
			return fmt.Errorf("%w: envío en estado %s no admite líneas", domain.ErrConflict, s.Status)
		}
		a, err := assetRepo.GetForUpdate(ctx, in.AssetID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("%w: activo", domain.ErrNotFound)
		}
		if err := inventory.Reserve(a); err != nil {
			return err
		}
		a.UpdatedAt = now
		if err := assetRepo.Update(ctx, a); err != nil {
			return err
		}
		desc := fmt.Sprintf("reservado para envío %s", s.ID)
		if err := assetRepo.AppendHistory(ctx, inventory.NewHistory(a, entity.AssetActionReserved, desc, userID, now)); err != nil {
			return err
		}
		item = &entity.ShipmentItem{
			ID:         uuid.New().String(),
			ShipmentID: s.ID,
			AssetID:    a.ID,
			CreatedAt:  now,
		}
		return shipmentRepo.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	out := toShipmentItemResponse(item)
	return &out, nil
}

// RemoveItem quita una línea antes del despacho y libera el activo reservado.
func (uc *ShipmentUseCase) RemoveItem(ctx context.Context, userID, itemID string) error {
	now := time.Now()
	return uc.txRunner.RunShipping(ctx, func(
		shipmentRepo repository.ShipmentRepository,
		_ repository.DeliveryRepository,
		assetRepo repository.AssetRepository,
	) error {
		item, err := shipmentRepo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		s, err := shipmentRepo.GetForUpdate(ctx, item.ShipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !shipping.ShipmentBeforeShipped(s.Status) {
			return fmt.Errorf("%w: envío en estado %s", domain.ErrConflict, s.Status)
		}
		if _, err := releaseAsset(ctx, assetRepo, item.AssetID, fmt.Sprintf("liberado del envío %s", s.ID), userID, now); err != nil {
			return err
		}
		return shipmentRepo.DeleteItem(ctx, itemID)
	})
}

// PickItem marca la línea como recogida. Es idempotente y no cambia el activo.
func (uc *ShipmentUseCase) PickItem(ctx context.Context, itemID string) (*dto.ShipmentItemResponse, error) {
	var item *entity.ShipmentItem
	err := uc.txRunner.RunShipping(ctx, func(
		shipmentRepo repository.ShipmentRepository,
		_ repository.DeliveryRepository,
		_ repository.AssetRepository,
	) error {
		var err error
		item, err = shipmentRepo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Picked {
			return nil
		}
		s, err := shipmentRepo.GetForUpdate(ctx, item.ShipmentID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !shipping.ShipmentBeforeShipped(s.Status) {
			return fmt.Errorf("%w: envío en estado %s", domain.ErrConflict, s.Status)
		}
		now := time.Now()
		item.Picked = true
		item.PickedAt = &now
		return shipmentRepo.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	out := toShipmentItemResponse(item)
	return &out, nil
}

// UpdateStatus aplica la tabla de transiciones del envío. Repetir el estado actual no hace nada.
// SHIPPED mueve todos los activos RESERVED del envío a IN_TRANSIT y crea la entrega, en una sola transacción.
// CANCELLED devuelve a AVAILABLE los activos que seguían reservados por el envío.
// DELIVERED instala los activos en la tienda destino.
func (uc *ShipmentUseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.UpdateStatusRequest) (*dto.ShipmentStatusResponse, error) {
	to, err := shipping.ParseShipmentStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var (
		shipment *entity.Shipment
		delivery *entity.Delivery
		moved    []*entity.Asset
		from     string
	)
	now := time.Now()
	err = uc.txRunner.RunShipping(ctx, func(
		shipmentRepo repository.ShipmentRepository,
		deliveryRepo repository.DeliveryRepository,
		assetRepo repository.AssetRepository,
	) error {
		s, err := shipmentRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		shipment, from = s, s.Status
		if s.Status == to {
			return nil
		}
		if !shipping.CanShipmentTransition(s.Status, to) {
			return fmt.Errorf("%w: envío %s -> %s", domain.ErrInvalidTransition, s.Status, to)
		}

		switch to {
		case entity.ShipmentStatusShipped:
			if len(s.Items) == 0 {
				return fmt.Errorf("%w: no se puede despachar un envío vacío", domain.ErrConflict)
			}
			moved, err = transition(ctx, assetRepo, s.ID, entity.ProcessReserved, entity.ProcessInTransit,
				repository.Location{}, entity.AssetActionShipped, fmt.Sprintf("despachado en envío %s", s.ID), userID, now)
			if err != nil {
				return err
			}
			s.ShippedAt = &now
			delivery = &entity.Delivery{
				ID:         uuid.New().String(),
				ShipmentID: s.ID,
				Status:     entity.DeliveryStatusCreated,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := deliveryRepo.Create(ctx, delivery); err != nil {
				return err
			}
		case entity.ShipmentStatusCancelled:
			desc := fmt.Sprintf("liberado por cancelación del envío %s", s.ID)
			for _, it := range s.Items {
				a, err := releaseAsset(ctx, assetRepo, it.AssetID, desc, userID, now)
				if err != nil {
					return err
				}
				if a != nil {
					moved = append(moved, a)
				}
			}
		case entity.ShipmentStatusDelivered:
			moved, err = installShipment(ctx, shipmentRepo, assetRepo, s, userID, now)
			if err != nil {
				return err
			}
			d, err := deliveryRepo.GetByShipment(ctx, s.ID)
			if err != nil {
				return err
			}
			if d != nil && !shipping.IsDeliveryTerminal(d.Status) {
				d.Status = entity.DeliveryStatusDelivered
				d.DeliveredAt = &now
				d.UpdatedAt = now
				if err := deliveryRepo.Update(ctx, d); err != nil {
					return err
				}
				delivery = d
			}
			return nil
		}

		s.Status = to
		s.UpdatedAt = now
		return shipmentRepo.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ShipmentStatusResponse{Shipment: toShipmentResponse(shipment), Assets: len(moved)}
	if delivery != nil {
		d := toDeliveryResponse(delivery)
		resp.Delivery = &d
	}
	if from == to {
		return resp, nil
	}
	events := []ports.Event{{
		Type:       ports.EventShipmentStatus,
		Entity:     "shipment",
		EntityID:   shipment.ID,
		Message:    fmt.Sprintf("envío %s -> %s", from, to),
		Attributes: map[string]string{"from": from, "to": to},
	}}
	if to == entity.ShipmentStatusShipped {
		events = append(events, ports.Event{
			Type:       ports.EventShipmentShipped,
			Entity:     "shipment",
			EntityID:   shipment.ID,
			Message:    fmt.Sprintf("%d activos en tránsito hacia tienda %s", len(moved), shipment.StoreID),
			Attributes: map[string]string{"delivery_id": delivery.ID},
		})
	}
	uc.publish(ctx, events...)
	return resp, nil
}

// releaseAsset devuelve a AVAILABLE un activo RESERVED, en su bodega, con su registro de bitácora.
// Un activo ausente o en otro estado se deja como está y devuelve nil.
func releaseAsset(ctx context.Context, assetRepo repository.AssetRepository, assetID, description, userID string, now time.Time) (*entity.Asset, error) {
	a, err := assetRepo.GetForUpdate(ctx, assetID)
	if err != nil || a == nil || a.ProcessStatus != entity.ProcessReserved {
		return nil, err
	}
	if err := inventory.Release(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = now
	if err := assetRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	if err := assetRepo.AppendHistory(ctx, inventory.NewHistory(a, entity.AssetActionReleased, description, userID, now)); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *ShipmentUseCase) publish(ctx context.Context, events ...ports.Event) {
	ports.Publish(ctx, uc.notifier, events, func(e ports.Event, err error) {
		uc.log.Warn().Err(err).Str("event", e.Type).Msg("no se pudo publicar el evento")
	})
}
