package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/inventory"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// StockLedgerUseCase opera el libro de stock por (producto, bodega).
// Las cantidades negativas se permiten y se reportan como advertencia.
type StockLedgerUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.StockRepository
	assetRepo     repository.AssetRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	storeRepo     repository.StoreRepository
	notifier      ports.Notifier
	log           *logger.Logger
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	assetRepo repository.AssetRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	storeRepo repository.StoreRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *StockLedgerUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedgerUseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		assetRepo:     assetRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		storeRepo:     storeRepo,
		notifier:      notifier,
		log:           log,
	}
}

// Create suma quantity a la posición (producto, bodega) o la crea si no existe.
// MinQuantity nil conserva el umbral vigente.
func (uc *StockLedgerUseCase) Create(ctx context.Context, userID string, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MinQuantity != nil && *in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureProductAndWarehouse(ctx, in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}

	var item *entity.StockItem
	err := uc.txRunner.RunLedger(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
		_ repository.AssetRepository,
	) error {
		var err error
		item, err = stockRepo.Increment(ctx, in.ProductID, in.WarehouseID, in.Quantity, in.MinQuantity)
		if err != nil {
			return err
		}
		return movRepo.Create(ctx, newMovement(item, entity.MovementTypeCreate, in.Quantity, "", "", userID))
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, ports.Event{
		Type:     ports.EventStockCreated,
		Entity:   "stock_item",
		EntityID: item.ID,
		Message:  fmt.Sprintf("+%d unidades en bodega %s (total %d)", in.Quantity, item.WarehouseID, item.Quantity),
	})
	out := toStockResponse(item)
	return &out, nil
}

// Adjust aplica un delta con signo de forma atómica (quantity = quantity + delta).
// El resultado negativo no se rechaza: se devuelve NegativeStock y se registra en el log.
func (uc *StockLedgerUseCase) Adjust(ctx context.Context, userID, id string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrZeroQuantity
	}

	var item *entity.StockItem
	err := uc.txRunner.RunLedger(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
		_ repository.AssetRepository,
	) error {
		var err error
		item, err = stockRepo.Adjust(ctx, id, in.Delta)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return movRepo.Create(ctx, newMovement(item, entity.MovementTypeAdjustment, in.Delta, "", in.Reason, userID))
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.AdjustStockResponse{Stock: toStockResponse(item)}
	events := []ports.Event{{
		Type:     ports.EventStockAdjusted,
		Entity:   "stock_item",
		EntityID: item.ID,
		Message:  fmt.Sprintf("ajuste %+d (total %d)", in.Delta, item.Quantity),
	}}
	if item.Quantity < 0 || item.Available() < 0 {
		resp.NegativeStock = true
		resp.Warning = fmt.Sprintf("stock negativo: cantidad %d, disponible %d", item.Quantity, item.Available())
		uc.log.Warn().
			Str("stock_item_id", item.ID).
			Int("quantity", item.Quantity).
			Int("available", item.Available()).
			Msg("ajuste deja stock negativo")
		events = append(events, ports.Event{
			Type:     ports.EventStockNegative,
			Entity:   "stock_item",
			EntityID: item.ID,
			Message:  resp.Warning,
		})
	}
	uc.publish(ctx, events...)
	return resp, nil
}

// Update sobrescribe min_quantity y/o reserved. Reserved mayor que quantity se permite pero queda marcado.
func (uc *StockLedgerUseCase) Update(ctx context.Context, id string, in dto.UpdateStockRequest) (*dto.StockResponse, error) {
	if (in.MinQuantity != nil && *in.MinQuantity < 0) || (in.Reserved != nil && *in.Reserved < 0) {
		return nil, domain.ErrInvalidInput
	}

	var item *entity.StockItem
	err := uc.txRunner.RunLedger(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.InventoryMovementRepository,
		_ repository.AssetRepository,
	) error {
		var err error
		item, err = stockRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.MinQuantity != nil {
			item.MinQuantity = *in.MinQuantity
		}
		if in.Reserved != nil {
			item.Reserved = *in.Reserved
		}
		item.UpdatedAt = time.Now()
		return stockRepo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	if inventory.OverReserved(item) {
		uc.log.Warn().Str("stock_item_id", item.ID).Int("reserved", item.Reserved).Int("quantity", item.Quantity).
			Msg("reservado supera la cantidad en mano")
	}
	out := toStockResponse(item)
	return &out, nil
}

// Delete elimina la posición. Se rechaza con conflicto si tiene unidades reservadas.
func (uc *StockLedgerUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunLedger(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.InventoryMovementRepository,
		_ repository.AssetRepository,
	) error {
		item, err := stockRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Reserved > 0 {
			return fmt.Errorf("%w: la posición tiene %d unidades reservadas", domain.ErrConflict, item.Reserved)
		}
		return stockRepo.Delete(ctx, id)
	})
}

// Get obtiene una posición por ID.
func (uc *StockLedgerUseCase) Get(ctx context.Context, id string) (*dto.StockResponse, error) {
	item, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	out := toStockResponse(item)
	return &out, nil
}

// ListByWarehouse lista posiciones de una bodega con valores derivados.
func (uc *StockLedgerUseCase) ListByWarehouse(ctx context.Context, warehouseID string, page dto.PageRequest) (*dto.StockListResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.Normalize()
	list, err := uc.stockRepo.ListByWarehouse(ctx, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page, len(items)),
	}, nil
}

// LowStock devuelve las posiciones bajo umbral o agotadas, ordenadas por urgencia:
// primero las agotadas, luego por mayor faltante.
func (uc *StockLedgerUseCase) LowStock(ctx context.Context, warehouseID string) ([]dto.LowStockItem, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.stockRepo.ListByWarehouse(ctx, warehouseID, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItem, 0)
	for _, s := range list {
		if !inventory.IsLow(s) && !inventory.IsOut(s) {
			continue
		}
		shortfall := s.MinQuantity - s.Available()
		if shortfall < 0 {
			shortfall = 0
		}
		out = append(out, dto.LowStockItem{StockResponse: toStockResponse(s), Shortfall: shortfall})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Out != out[j].Out {
			return out[i].Out
		}
		return out[i].Shortfall > out[j].Shortfall
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// AvailableToPromise suma el disponible de todas las bodegas más los activos AVAILABLE del producto.
func (uc *StockLedgerUseCase) AvailableToPromise(ctx context.Context, productID string) (*dto.AvailabilityResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	positions, err := uc.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	stockAvailable := 0
	for _, s := range positions {
		stockAvailable += s.Available()
	}
	assets, err := uc.assetRepo.CountAvailableByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		ProductID:       productID,
		StockAvailable:  stockAvailable,
		AssetsAvailable: assets,
		Total:           stockAvailable + assets,
	}, nil
}

// IssueToStore descuenta stock de la bodega y registra quantity activos virtuales instalados en la tienda.
// Todo ocurre en una transacción; el stock negativo se permite con advertencia.
func (uc *StockLedgerUseCase) IssueToStore(ctx context.Context, userID string, in dto.IssueStockRequest) (*dto.IssueStockResponse, error) {
	if in.Quantity < 1 || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureProductAndWarehouse(ctx, in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda", domain.ErrNotFound)
	}

	var (
		item   *entity.StockItem
		assets []*entity.Asset
	)
	now := time.Now()
	err = uc.txRunner.RunLedger(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
		assetRepo repository.AssetRepository,
	) error {
		var err error
		item, err = stockRepo.Increment(ctx, in.ProductID, in.WarehouseID, -in.Quantity, nil)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, newMovement(item, entity.MovementTypeIssue, -in.Quantity, store.ID, "salida a tienda", userID)); err != nil {
			return err
		}
		storeID := store.ID
		for i := 0; i < in.Quantity; i++ {
			a := &entity.Asset{
				ID:            uuid.New().String(),
				SerialNumber:  virtualSerial(),
				ProductID:     in.ProductID,
				Condition:     entity.ConditionNew,
				ProcessStatus: entity.ProcessInstalled,
				StoreID:       &storeID,
				Virtual:       true,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := assetRepo.Create(ctx, a); err != nil {
				return err
			}
			desc := fmt.Sprintf("instalado en tienda %s desde bodega %s", store.Name, in.WarehouseID)
			if err := assetRepo.AppendHistory(ctx, inventory.NewHistory(a, entity.AssetActionInstalled, desc, userID, now)); err != nil {
				return err
			}
			assets = append(assets, a)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.IssueStockResponse{Stock: toStockResponse(item), Assets: make([]dto.AssetResponse, 0, len(assets))}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, toAssetResponse(a))
	}
	if item.Quantity < 0 || item.Available() < 0 {
		resp.NegativeStock = true
		uc.log.Warn().Str("stock_item_id", item.ID).Int("quantity", item.Quantity).Msg("salida a tienda deja stock negativo")
	}
	uc.publish(ctx, ports.Event{
		Type:       ports.EventStockIssued,
		Entity:     "stock_item",
		EntityID:   item.ID,
		Message:    fmt.Sprintf("%d unidades instaladas en tienda %s", in.Quantity, store.Name),
		Attributes: map[string]string{"store_id": store.ID},
	})
	return resp, nil
}

func (uc *StockLedgerUseCase) ensureProductAndWarehouse(ctx context.Context, productID, warehouseID string) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	w, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("%w: bodega", domain.ErrNotFound)
	}
	return nil
}

func (uc *StockLedgerUseCase) publish(ctx context.Context, events ...ports.Event) {
	ports.Publish(ctx, uc.notifier, events, func(e ports.Event, err error) {
		uc.log.Warn().Err(err).Str("event", e.Type).Msg("no se pudo publicar el evento")
	})
}

func newMovement(item *entity.StockItem, movType string, qty int, reference, reason, userID string) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ID:          uuid.New().String(),
		StockItemID: item.ID,
		ProductID:   item.ProductID,
		WarehouseID: item.WarehouseID,
		Type:        movType,
		Quantity:    qty,
		UnitCost:    decimal.Zero,
		Reference:   reference,
		Reason:      reason,
		CreatedAt:   time.Now(),
		CreatedBy:   userID,
	}
}

func virtualSerial() string {
	return "VIRT-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

func generatedSerial() string {
	return "SN-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
