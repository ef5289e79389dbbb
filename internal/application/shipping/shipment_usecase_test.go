package shipping_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/memory"
)

const (
	whID    = "wh-1"
	storeID = "st-1"
	userID  = "u-1"
)

type env struct {
	store      *memory.Store
	assets     *inventory.AssetUseCase
	shipments  *shipping.ShipmentUseCase
	deliveries *shipping.DeliveryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	now := time.Now()
	s.SeedWarehouse(entity.Warehouse{ID: whID, Name: "Central", CreatedAt: now})
	s.SeedStore(entity.Store{ID: storeID, Code: "T-001", Name: "Tienda Norte", CreatedAt: now})
	s.SeedStore(entity.Store{ID: "st-2", Code: "T-002", Name: "Tienda Sur", CreatedAt: now})
	s.SeedProduct(entity.Product{ID: "p-1", SKU: "RTR-1", Name: "Router"})
	return &env{
		store:      s,
		assets:     inventory.NewAssetUseCase(s, s.Assets(), s.Products(), s.Warehouses(), nil, nil),
		shipments:  shipping.NewShipmentUseCase(s, s.Shipments(), s.Warehouses(), s.Stores(), nil, nil),
		deliveries: shipping.NewDeliveryUseCase(s, s.Deliveries(), nil, nil),
	}
}

func (e *env) register(t *testing.T, serial string) dto.AssetResponse {
	t.Helper()
	wh := whID
	a, err := e.assets.Register(context.Background(), userID, dto.RegisterAssetRequest{SerialNumber: serial, ProductID: "p-1", WarehouseID: &wh})
	require.NoError(t, err)
	return *a
}

func (e *env) shipment(t *testing.T, store string) dto.ShipmentResponse {
	t.Helper()
	s, err := e.shipments.Create(context.Background(), userID, dto.CreateShipmentRequest{RequestID: "REQ-1", WarehouseID: whID, StoreID: store})
	require.NoError(t, err)
	return *s
}

func (e *env) status(t *testing.T, assetID string) entity.ProcessStatus {
	t.Helper()
	a, err := e.assets.Get(context.Background(), assetID)
	require.NoError(t, err)
	return entity.ProcessStatus(a.ProcessStatus)
}

func TestShipment_AddItemReservaActivo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "SN-1")
	s := e.shipment(t, storeID)

	item, err := e.shipments.AddItem(ctx, userID, s.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, a.ID, item.AssetID)
	assert.Equal(t, entity.ProcessReserved, e.status(t, a.ID))

	// El mismo activo ya no está disponible para otro envío.
	other := e.shipment(t, "st-2")
	_, err = e.shipments.AddItem(ctx, userID, other.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	assert.ErrorIs(t, err, domain.ErrAssetNotAvailable)

	got, err := e.shipments.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "no se crea la línea")
}

func TestShipment_RemoveItemLiberaActivo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "SN-1")
	s := e.shipment(t, storeID)
	item, err := e.shipments.AddItem(ctx, userID, s.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	require.NoError(t, err)

	require.NoError(t, e.shipments.RemoveItem(ctx, userID, item.ID))
	assert.Equal(t, entity.ProcessAvailable, e.status(t, a.ID))

	got, err := e.shipments.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestShipment_CancelarLiberaActivosReservados(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "SN-1")
	b := e.register(t, "SN-2")
	s := e.shipment(t, storeID)
	for _, id := range []string{a.ID, b.ID} {
		_, err := e.shipments.AddItem(ctx, userID, s.ID, dto.AddShipmentItemRequest{AssetID: id})
		require.NoError(t, err)
	}

	res, err := e.shipments.UpdateStatus(ctx, userID, s.ID, dto.UpdateStatusRequest{Status: entity.ShipmentStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusCancelled, res.Shipment.Status)
	assert.Equal(t, 2, res.Assets)
	assert.Equal(t, entity.ProcessAvailable, e.status(t, a.ID))
	assert.Equal(t, entity.ProcessAvailable, e.status(t, b.ID))

	got, err := e.assets.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WarehouseID)
	assert.Equal(t, whID, *got.WarehouseID, "vuelve a su bodega")
	hist, err := e.assets.History(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AssetActionReleased, hist[len(hist)-1].Action)

	// El activo liberado puede ir en otro envío.
	other := e.shipment(t, "st-2")
	_, err = e.shipments.AddItem(ctx, userID, other.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ProcessReserved, e.status(t, a.ID))
}

func TestShipment_PickItemIdempotente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "SN-1")
	s := e.shipment(t, storeID)
	item, err := e.shipments.AddItem(ctx, userID, s.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	require.NoError(t, err)

	first, err := e.shipments.PickItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, first.Picked)
	second, err := e.shipments.PickItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PickedAt, second.PickedAt)
	assert.Equal(t, entity.ProcessReserved, e.status(t, a.ID), "el picking no cambia el activo")
}

func TestShipment_EnvioVacioNoSeDespacha(t *testing.T) {
	e := newEnv(t)
	s := e.shipment(t, storeID)
	_, err := e.shipments.UpdateStatus(context.Background(), userID, s.ID, dto.UpdateStatusRequest{Status: "SHIPPED"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := e.shipments.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusDraft, got.Status)
}

func TestShipment_DespachoMueveSoloSusActivos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a1 := e.register(t, "SN-1")
	a2 := e.register(t, "SN-2")
	a3 := e.register(t, "SN-3")
	s1 := e.shipment(t, storeID)
	s2 := e.shipment(t, "st-2")
	for _, id := range []string{a1.ID, a2.ID} {
		_, err := e.shipments.AddItem(ctx, userID, s1.ID, dto.AddShipmentItemRequest{AssetID: id})
		require.NoError(t, err)
	}
	_, err := e.shipments.AddItem(ctx, userID, s2.ID, dto.AddShipmentItemRequest{AssetID: a3.ID})
	require.NoError(t, err)

	_, err = e.shipments.UpdateStatus(ctx, userID, s1.ID, dto.UpdateStatusRequest{Status: "picking"})
	require.NoError(t, err)
	_, err = e.shipments.UpdateStatus(ctx, userID, s1.ID, dto.UpdateStatusRequest{Status: "READY"})
	require.NoError(t, err)
	res, err := e.shipments.UpdateStatus(ctx, userID, s1.ID, dto.UpdateStatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)

	assert.Equal(t, entity.ShipmentStatusShipped, res.Shipment.Status)
	assert.NotNil(t, res.Shipment.ShippedAt)
	assert.Equal(t, 2, res.Assets)
	require.NotNil(t, res.Delivery)
	assert.Equal(t, entity.DeliveryStatusCreated, res.Delivery.Status)

	assert.Equal(t, entity.ProcessInTransit, e.status(t, a1.ID))
	assert.Equal(t, entity.ProcessInTransit, e.status(t, a2.ID))
	assert.Equal(t, entity.ProcessReserved, e.status(t, a3.ID), "los activos de otro envío no se tocan")

	got, err := e.assets.Get(ctx, a1.ID)
	require.NoError(t, err)
	assert.Nil(t, got.WarehouseID)
	assert.Nil(t, got.StoreID)

	d, err := e.deliveries.GetByShipment(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Delivery.ID, d.ID)

	// Repetir el estado no crea otra entrega.
	again, err := e.shipments.UpdateStatus(ctx, userID, s1.ID, dto.UpdateStatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Nil(t, again.Delivery)
	assert.Zero(t, again.Assets)

	_, err = e.shipments.AddItem(ctx, userID, s1.ID, dto.AddShipmentItemRequest{AssetID: e.register(t, "SN-4").ID})
	assert.ErrorIs(t, err, domain.ErrConflict, "un envío despachado no admite líneas")
}

func TestShipment_TransicionInvalida(t *testing.T) {
	e := newEnv(t)
	s := e.shipment(t, storeID)
	_, err := e.shipments.UpdateStatus(context.Background(), userID, s.ID, dto.UpdateStatusRequest{Status: "DELIVERED"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.shipments.UpdateStatus(context.Background(), userID, s.ID, dto.UpdateStatusRequest{Status: "PERDIDO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelivery_FlujoCompletoInstalaActivos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "SN-1")
	s := e.shipment(t, storeID)
	_, err := e.shipments.AddItem(ctx, userID, s.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	require.NoError(t, err)
	res, err := e.shipments.UpdateStatus(ctx, userID, s.ID, dto.UpdateStatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)
	dID := res.Delivery.ID

	d, err := e.deliveries.AssignCourier(ctx, dID, dto.AssignCourierRequest{CourierName: "Ana", TrackingNumber: "TRK-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusCourierAssigned, d.Status)

	_, err = e.deliveries.UpdateStatus(ctx, userID, dID, dto.UpdateStatusRequest{Status: "DELIVERED"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se saltan pasos")

	d, err = e.deliveries.UpdateStatus(ctx, userID, dID, dto.UpdateStatusRequest{Status: "PICKED_UP"})
	require.NoError(t, err)
	assert.NotNil(t, d.PickedUpAt)

	d, err = e.deliveries.UpdateStatus(ctx, userID, dID, dto.UpdateStatusRequest{Status: "PROBLEM", Note: "dirección errada"})
	require.NoError(t, err)
	assert.Equal(t, "dirección errada", d.ProblemNote)

	_, err = e.deliveries.UpdateStatus(ctx, userID, dID, dto.UpdateStatusRequest{Status: "IN_TRANSIT"})
	require.NoError(t, err)
	d, err = e.deliveries.UpdateStatus(ctx, userID, dID, dto.UpdateStatusRequest{Status: "DELIVERED"})
	require.NoError(t, err)
	assert.NotNil(t, d.DeliveredAt)

	got, err := e.assets.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProcessInstalled), got.ProcessStatus)
	require.NotNil(t, got.StoreID)
	assert.Equal(t, storeID, *got.StoreID)

	ship, err := e.shipments.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusDelivered, ship.Status)

	hist, err := e.assets.History(ctx, a.ID)
	require.NoError(t, err)
	actions := make([]string, 0, len(hist))
	for _, h := range hist {
		actions = append(actions, h.Action)
	}
	assert.Equal(t, []string{
		entity.AssetActionRegistered,
		entity.AssetActionReserved,
		entity.AssetActionShipped,
		entity.AssetActionDelivered,
		entity.AssetActionInstalled,
	}, actions)

	_, err = e.deliveries.AssignCourier(ctx, dID, dto.AssignCourierRequest{CourierName: "Luis"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una entrega terminada no cambia")
}

func TestShipment_EntregadoDirectoCompletaLaEntrega(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "SN-1")
	s := e.shipment(t, storeID)
	_, err := e.shipments.AddItem(ctx, userID, s.ID, dto.AddShipmentItemRequest{AssetID: a.ID})
	require.NoError(t, err)
	_, err = e.shipments.UpdateStatus(ctx, userID, s.ID, dto.UpdateStatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)

	res, err := e.shipments.UpdateStatus(ctx, userID, s.ID, dto.UpdateStatusRequest{Status: "DELIVERED"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assets)
	require.NotNil(t, res.Delivery)
	assert.Equal(t, entity.DeliveryStatusDelivered, res.Delivery.Status)
	assert.Equal(t, entity.ProcessInstalled, e.status(t, a.ID))
}
