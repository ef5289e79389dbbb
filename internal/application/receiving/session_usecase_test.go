package receiving_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/memory"
)

const (
	testWarehouse = "wh-1"
	testOperator  = "op-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	uc    *receiving.SessionUseCase
}

func newFixture(t *testing.T, tx receiving.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	store.SeedWarehouse(entity.Warehouse{ID: testWarehouse, Name: "Central", CreatedAt: now})
	store.SeedProduct(entity.Product{ID: "p-abc", SKU: "ABC", Name: "Router ABC"})
	store.SeedProduct(entity.Product{ID: "p-def", SKU: "DEF", Name: "Switch DEF"})
	store.SeedProduct(entity.Product{ID: "p-ghi", SKU: "GHI", Name: "Antena GHI"})
	if tx == nil {
		tx = store
	}
	uc := receiving.NewSessionUseCase(receiving.SessionDeps{
		TxRunner:      tx,
		SessionRepo:   store.Receiving(),
		ProductRepo:   store.Products(),
		WarehouseRepo: store.Warehouses(),
		Modes:         receiving.NewModeStore(nil),
	})
	return &fixture{store: store, uc: uc}
}

func (f *fixture) open(t *testing.T, items ...dto.ReceivingItemRequest) *dto.SessionResponse {
	t.Helper()
	s, err := f.uc.Open(context.Background(), testOperator, dto.OpenSessionRequest{
		WarehouseID:   testWarehouse,
		InvoiceNumber: "F-100",
		Supplier:      "Proveedor SA",
		Items:         items,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) stockOf(t *testing.T, productID string) *entity.StockItem {
	t.Helper()
	s, err := f.store.Stock().GetByProductAndWarehouse(context.Background(), productID, testWarehouse)
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: factura de 50 unidades de ABC
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_EscenarioCompleto(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 50})
	require.Len(t, s.Items, 1)
	require.NotNil(t, s.Items[0].ProductID, "el SKU se resuelve contra el catálogo")
	itemID := s.Items[0].ID

	res, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Progress.TotalScanned)
	assert.Equal(t, entity.ReceivingStatusInProgress, res.Progress.Status)

	_, err = f.uc.RequestBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	_, err = f.uc.ConfirmBox(ctx, testOperator, s.ID, dto.ConfirmBoxRequest{Multiplier: 10})
	require.NoError(t, err)

	res, err = f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Scan.Quantity, "un escaneo en modo caja registra N en un solo registro")
	assert.Equal(t, "BOX10:ABC", res.Scan.Code)
	assert.Equal(t, 11, res.Progress.TotalScanned)

	res, err = f.uc.ManualEntry(ctx, testOperator, s.ID, dto.ManualEntryRequest{ItemID: itemID, Quantity: -2})
	require.NoError(t, err)
	assert.True(t, res.Scan.IsManual)
	assert.Empty(t, res.Scan.Code)
	assert.Equal(t, 9, res.Progress.TotalScanned)

	commit, err := f.uc.Commit(ctx, testOperator, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingStatusCompleted, commit.Session.Status)
	assert.NotNil(t, commit.Session.CompletedAt)
	require.Len(t, commit.Applied, 1)
	assert.Equal(t, 9, commit.Applied[0].Quantity)

	stock := f.stockOf(t, "p-abc")
	require.NotNil(t, stock)
	assert.Equal(t, 9, stock.Quantity)

	movs, err := f.store.Movements().ListByStockItem(ctx, stock.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeReceipt, movs[0].Type)
	assert.Equal(t, s.ID, movs[0].Reference)
}

func TestSession_ScannedQuantityEsSumaDeEscaneos(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 30})

	_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)
	_, err = f.uc.RequestBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	_, err = f.uc.ConfirmBox(ctx, testOperator, s.ID, dto.ConfirmBoxRequest{Multiplier: 10})
	require.NoError(t, err)
	_, err = f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)
	res, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)
	require.Equal(t, 21, res.Progress.TotalScanned)

	// Borrar uno de los escaneos de 10 deja 11.
	progress, err := f.uc.DeleteScan(ctx, res.Scan.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, progress.TotalScanned)

	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	sum := 0
	for _, sc := range got.Items[0].Scans {
		sum += sc.Quantity
	}
	assert.Equal(t, sum, got.Items[0].ScannedQuantity)
	assert.Len(t, got.Items[0].Scans, 2)
}

func TestSession_ModoPorOperador(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 30})

	_, err := f.uc.RequestBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	_, err = f.uc.ConfirmBox(ctx, testOperator, s.ID, dto.ConfirmBoxRequest{Multiplier: 6})
	require.NoError(t, err)

	res, err := f.uc.Scan(ctx, "op-2", s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scan.Quantity, "otro operador sigue en modo unitario")

	mode, err := f.uc.Mode(ctx, testOperator, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "box", mode.Mode)
	assert.Equal(t, 6, mode.Multiplier)
}

func TestSession_DialogoCaja(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 10})

	mode, err := f.uc.RequestBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	assert.True(t, mode.Pending)
	assert.Equal(t, []int{6, 10, 12, 20}, mode.Suggestions)

	_, err = f.uc.ConfirmBox(ctx, testOperator, s.ID, dto.ConfirmBoxRequest{Multiplier: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidMultiplier)

	mode, err = f.uc.CancelBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	assert.False(t, mode.Pending)
	assert.Equal(t, "single", mode.Mode)

	_, err = f.uc.RequestBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	_, err = f.uc.ConfirmBox(ctx, testOperator, s.ID, dto.ConfirmBoxRequest{Multiplier: 12})
	require.NoError(t, err)
	mode, err = f.uc.DisableBox(ctx, testOperator, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "single", mode.Mode)
	assert.Equal(t, 1, mode.Multiplier)
}

func TestSession_ScanSinCoincidencia(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 5})

	_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ZZZ"})
	assert.ErrorIs(t, err, domain.ErrScanNoMatch)

	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingStatusDraft, got.Status, "un escaneo fallido no cambia el estado")
	assert.Empty(t, got.Items[0].Scans)
}

func TestSession_ManualCeroRechazado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 5})

	_, err := f.uc.ManualEntry(ctx, testOperator, s.ID, dto.ManualEntryRequest{ItemID: s.Items[0].ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrZeroQuantity)

	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items[0].Scans)
}

func TestSession_CommitSinEscaneosFalla(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 5})

	_, err := f.uc.Commit(ctx, testOperator, s.ID)
	assert.ErrorIs(t, err, domain.ErrNothingScanned)

	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingStatusDraft, got.Status)
}

func TestSession_SegundoCommitFalla(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 5})
	_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)

	_, err = f.uc.Commit(ctx, testOperator, s.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(ctx, testOperator, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	assert.Equal(t, 1, f.stockOf(t, "p-abc").Quantity, "el segundo commit no vuelve a sumar")

	_, err = f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	assert.ErrorIs(t, f.uc.Delete(ctx, s.ID), domain.ErrSessionCompleted)
}

func TestSession_CommitOmiteLineasSinProducto(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t,
		dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 2},
		dto.ReceivingItemRequest{Name: "Cable genérico", ExpectedQuantity: 3},
	)
	_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "abc"})
	require.NoError(t, err)
	_, err = f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "cable genérico"})
	require.NoError(t, err)

	res, err := f.uc.Commit(ctx, testOperator, s.ID)
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "p-abc", res.Applied[0].ProductID)

	found := false
	for _, w := range res.Warnings {
		if w.Type == "UNMAPPED_ITEM" {
			found = true
			assert.Equal(t, s.Items[1].ID, w.ItemID)
		}
	}
	assert.True(t, found, "la línea sin producto se reporta como advertencia")
}

func TestSession_SobreRecepcionEsAdvertencia(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 1})
	_, err := f.uc.ManualEntry(ctx, testOperator, s.ID, dto.ManualEntryRequest{ItemID: s.Items[0].ID, Quantity: 3})
	require.NoError(t, err)

	p, err := f.uc.Progress(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Percent)
	require.NotEmpty(t, p.Warnings)
	assert.Equal(t, "OVER_RECEIPT", p.Warnings[0].Type)

	_, err = f.uc.Commit(ctx, testOperator, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockOf(t, "p-abc").Quantity)
}

func TestSession_ProductoNuevoSinAsociar(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.Open(context.Background(), testOperator, dto.OpenSessionRequest{
		WarehouseID: testWarehouse,
		Items:       []dto.ReceivingItemRequest{{Name: "Modem X", SKU: "NO-EXISTE", NewProduct: true, ExpectedQuantity: 4}},
	})
	assert.ErrorIs(t, err, domain.ErrUnmappedNewProduct)
}

func TestSession_AbrirSinLineasYAgregar(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t)
	assert.Empty(t, s.Items)

	item, err := f.uc.AddItem(ctx, s.ID, dto.ReceivingItemRequest{Name: "Antena", ExpectedQuantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Position)
	assert.Nil(t, item.ProductID)

	mapped, err := f.uc.MapItem(ctx, item.ID, dto.MapItemRequest{ProductID: "p-ghi"})
	require.NoError(t, err)
	require.NotNil(t, mapped.ProductID)
	assert.Equal(t, "p-ghi", *mapped.ProductID)

	_, err = f.uc.MapItem(ctx, item.ID, dto.MapItemRequest{ProductID: "p-nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_Delete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 5})
	_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, s.ID))
	_, err = f.uc.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad del commit
// ──────────────────────────────────────────────────────────────────────────────

var errBoom = errors.New("fallo de escritura simulado")

// failingTx envuelve el TxRunner real y hace fallar el n-ésimo Increment del libro.
type failingTx struct {
	inner  receiving.TxRunner
	failOn int
}

func (f failingTx) RunReceiving(ctx context.Context, fn func(
	sessionRepo repository.ReceivingRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return f.inner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		return fn(sessionRepo, &failingStock{StockRepository: stockRepo, failOn: f.failOn}, movRepo)
	})
}

type failingStock struct {
	repository.StockRepository
	calls  int
	failOn int
}

func (s *failingStock) Increment(ctx context.Context, productID, warehouseID string, quantity int, minQuantity *int) (*entity.StockItem, error) {
	s.calls++
	if s.calls == s.failOn {
		return nil, errBoom
	}
	return s.StockRepository.Increment(ctx, productID, warehouseID, quantity, minQuantity)
}

func TestSession_CommitAtomico(t *testing.T) {
	f := newFixture(t, nil)
	store := f.store
	f.uc = receiving.NewSessionUseCase(receiving.SessionDeps{
		TxRunner:      failingTx{inner: store, failOn: 2},
		SessionRepo:   store.Receiving(),
		ProductRepo:   store.Products(),
		WarehouseRepo: store.Warehouses(),
	})
	ctx := context.Background()
	s := f.open(t,
		dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 1},
		dto.ReceivingItemRequest{SKU: "DEF", ExpectedQuantity: 1},
		dto.ReceivingItemRequest{SKU: "GHI", ExpectedQuantity: 1},
	)
	for _, code := range []string{"ABC", "DEF", "GHI"} {
		_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: code})
		require.NoError(t, err)
	}

	_, err := f.uc.Commit(ctx, testOperator, s.ID)
	require.ErrorIs(t, err, errBoom)

	assert.Nil(t, f.stockOf(t, "p-abc"), "la primera línea se revierte")
	assert.Nil(t, f.stockOf(t, "p-def"))
	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingStatusInProgress, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestSession_CommitContextoCancelado(t *testing.T) {
	f := newFixture(t, nil)
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 1})
	_, err := f.uc.Scan(context.Background(), testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.uc.Commit(ctx, testOperator, s.ID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, f.stockOf(t, "p-abc"))
}

func TestSession_LineaSinNombreNiSKU(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.Open(context.Background(), testOperator, dto.OpenSessionRequest{
		WarehouseID: testWarehouse,
		Items:       []dto.ReceivingItemRequest{{ProductID: strPtr("p-abc"), ExpectedQuantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras concurrentes con Commit
// ──────────────────────────────────────────────────────────────────────────────

// staleReadTx reproduce una lectura sin bloqueo tomada antes de que otra transacción completara la sesión:
// GetSession devuelve la foto vieja y GetSessionForUpdate espera el bloqueo y ve el estado confirmado.
type staleReadTx struct {
	inner receiving.TxRunner
	stale *entity.ReceivingSession
}

func (tx staleReadTx) RunReceiving(ctx context.Context, fn func(
	sessionRepo repository.ReceivingRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return tx.inner.RunReceiving(ctx, func(
		sessionRepo repository.ReceivingRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		return fn(&staleSessions{ReceivingRepository: sessionRepo, stale: tx.stale}, stockRepo, movRepo)
	})
}

type staleSessions struct {
	repository.ReceivingRepository
	stale *entity.ReceivingSession
}

func (r *staleSessions) GetSession(ctx context.Context, id string) (*entity.ReceivingSession, error) {
	if id == r.stale.ID {
		cp := *r.stale
		return &cp, nil
	}
	return r.ReceivingRepository.GetSession(ctx, id)
}

func TestSession_EscriturasTrasCommitConcurrente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t,
		dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 50},
		dto.ReceivingItemRequest{Name: "Cable sin catálogo", ExpectedQuantity: 5},
	)
	abcID, cableID := s.Items[0].ID, s.Items[1].ID
	res, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	require.NoError(t, err)

	stale, err := f.store.Receiving().GetSession(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ReceivingStatusInProgress, stale.Status)

	_, err = f.uc.Commit(ctx, testOperator, s.ID)
	require.NoError(t, err)

	racing := receiving.NewSessionUseCase(receiving.SessionDeps{
		TxRunner:      staleReadTx{inner: f.store, stale: stale},
		SessionRepo:   f.store.Receiving(),
		ProductRepo:   f.store.Products(),
		WarehouseRepo: f.store.Warehouses(),
		Modes:         receiving.NewModeStore(nil),
	})

	_, err = racing.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	_, err = racing.ManualEntry(ctx, testOperator, s.ID, dto.ManualEntryRequest{ItemID: abcID, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	_, err = racing.DeleteScan(ctx, res.Scan.ID)
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	_, err = racing.MapItem(ctx, cableID, dto.MapItemRequest{ProductID: "p-def"})
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)

	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].ScannedQuantity, "el total escaneado coincide con lo aplicado al libro")
	assert.Nil(t, got.Items[1].ProductID)
	assert.Equal(t, 1, f.stockOf(t, "p-abc").Quantity)
}

func TestSession_EscaneosConcurrentesNoPierdenUnidades(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.open(t, dto.ReceivingItemRequest{SKU: "ABC", ExpectedQuantity: 50})

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Scan(ctx, testOperator, s.ID, dto.ScanRequest{Code: "ABC"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.uc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.Items[0].ScannedQuantity)
	assert.Len(t, got.Items[0].Scans, n)
}
