package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/memory"
)

func newAssets(s *memory.Store) *inventory.AssetUseCase {
	return inventory.NewAssetUseCase(s, s.Assets(), s.Products(), s.Warehouses(), nil, nil)
}

// installed deja un activo INSTALLED en la tienda de prueba mediante una salida de stock.
func installed(t *testing.T, s *memory.Store) dto.AssetResponse {
	t.Helper()
	res, err := newLedger(s, nil).IssueToStore(context.Background(), userID, dto.IssueStockRequest{
		ProductID: productID, WarehouseID: whID, StoreID: storeID, Quantity: 1,
	})
	require.NoError(t, err)
	return res.Assets[0]
}

func TestAsset_Register(t *testing.T) {
	s := seeded(t)
	uc := newAssets(s)
	ctx := context.Background()
	wh := whID

	a, err := uc.Register(ctx, userID, dto.RegisterAssetRequest{SerialNumber: "SN-001", ProductID: productID, WarehouseID: &wh})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProcessAvailable), a.ProcessStatus)
	assert.Equal(t, string(entity.ConditionNew), a.Condition)
	assert.Equal(t, "warehouse:"+whID, a.Location)

	_, err = uc.Register(ctx, userID, dto.RegisterAssetRequest{SerialNumber: "SN-001", ProductID: productID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	gen, err := uc.Register(ctx, userID, dto.RegisterAssetRequest{ProductID: productID, Condition: "working"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gen.SerialNumber, "SN-"))
	assert.Equal(t, string(entity.ConditionGood), gen.Condition)

	hist, err := uc.History(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, entity.AssetActionRegistered, hist[0].Action)
}

func TestAsset_RegisterCondicionInvalida(t *testing.T) {
	uc := newAssets(seeded(t))
	_, err := uc.Register(context.Background(), userID, dto.RegisterAssetRequest{ProductID: productID, Condition: "mojado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsset_UninstallRequiereConfirmacion(t *testing.T) {
	s := seeded(t)
	uc := newAssets(s)
	ctx := context.Background()
	a := installed(t, s)

	_, err := uc.Uninstall(ctx, userID, a.ID, dto.UninstallAssetRequest{})
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)

	wh := whID
	out, err := uc.Uninstall(ctx, userID, a.ID, dto.UninstallAssetRequest{WarehouseID: &wh, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProcessAvailable), out.ProcessStatus)
	assert.Nil(t, out.StoreID)
	require.NotNil(t, out.WarehouseID)
	assert.Equal(t, whID, *out.WarehouseID)

	_, err = uc.Uninstall(ctx, userID, a.ID, dto.UninstallAssetRequest{Confirm: true})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un activo AVAILABLE no se desinstala")
}

func TestAsset_ReplaceConSerialNuevo(t *testing.T) {
	s := seeded(t)
	uc := newAssets(s)
	ctx := context.Background()
	old := installed(t, s)

	res, err := uc.Replace(ctx, userID, old.ID, dto.ReplaceAssetRequest{NewSerialNumber: "SN-NEW", Condition: "broken", Reason: "no enciende"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.ProcessAvailable), res.Old.ProcessStatus)
	assert.Equal(t, string(entity.ConditionBroken), res.Old.Condition)
	assert.Nil(t, res.Old.StoreID)
	assert.Nil(t, res.Old.WarehouseID)
	assert.Contains(t, res.Old.Notes, "no enciende")

	assert.Equal(t, "SN-NEW", res.New.SerialNumber)
	assert.Equal(t, string(entity.ProcessInstalled), res.New.ProcessStatus)
	require.NotNil(t, res.New.StoreID)
	assert.Equal(t, storeID, *res.New.StoreID)
	assert.Equal(t, productID, res.New.ProductID)

	hist, err := uc.History(ctx, res.New.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.AssetActionRegistered, hist[0].Action)
	assert.Equal(t, entity.AssetActionInstalled, hist[1].Action)
}

func TestAsset_ReplaceConActivoNoDisponibleNoCambiaNada(t *testing.T) {
	s := seeded(t)
	uc := newAssets(s)
	ctx := context.Background()
	old := installed(t, s)
	other := installed(t, s)

	_, err := uc.Replace(ctx, userID, old.ID, dto.ReplaceAssetRequest{NewSerialNumber: other.SerialNumber, Condition: "fair", Reason: "falla"})
	assert.ErrorIs(t, err, domain.ErrAssetNotAvailable)

	got, err := uc.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProcessInstalled), got.ProcessStatus, "ninguna mitad se aplica")
	assert.Equal(t, string(entity.ConditionNew), got.Condition)
}

func TestAsset_ReplaceSoloInstalados(t *testing.T) {
	s := seeded(t)
	uc := newAssets(s)
	a, err := uc.Register(context.Background(), userID, dto.RegisterAssetRequest{ProductID: productID})
	require.NoError(t, err)

	_, err = uc.Replace(context.Background(), userID, a.ID, dto.ReplaceAssetRequest{Condition: "good", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAsset_UpdateConditionNoTocaElFlujo(t *testing.T) {
	s := seeded(t)
	uc := newAssets(s)
	ctx := context.Background()
	a := installed(t, s)

	out, err := uc.UpdateCondition(ctx, userID, a.ID, dto.UpdateConditionRequest{Condition: "in_repair", Note: "enviado a taller"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ConditionRepair), out.Condition)
	assert.Equal(t, string(entity.ProcessInstalled), out.ProcessStatus)

	hist, err := uc.History(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AssetActionCondition, hist[len(hist)-1].Action)
}
