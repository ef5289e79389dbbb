package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/inventory"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// AssetUseCase opera el registro de activos fuera del flujo de envíos:
// alta, desinstalación, reemplazo y cambio de condición.
type AssetUseCase struct {
	txRunner      TxRunner
	assetRepo     repository.AssetRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	notifier      ports.Notifier
	log           *logger.Logger
}

// NewAssetUseCase construye el caso de uso.
func NewAssetUseCase(
	txRunner TxRunner,
	assetRepo repository.AssetRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *AssetUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AssetUseCase{
		txRunner:      txRunner,
		assetRepo:     assetRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log,
	}
}

// Register da de alta un activo AVAILABLE. Serial vacío genera uno (SN-…); serial repetido es conflicto.
func (uc *AssetUseCase) Register(ctx context.Context, userID string, in dto.RegisterAssetRequest) (*dto.AssetResponse, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	condition := entity.ConditionNew
	if strings.TrimSpace(in.Condition) != "" {
		c, err := inventory.ParseCondition(in.Condition)
		if err != nil {
			return nil, err
		}
		condition = c
	}
	p, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	if in.WarehouseID != nil {
		w, err := uc.warehouseRepo.GetByID(ctx, *in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("%w: bodega", domain.ErrNotFound)
		}
	}

	serial := strings.TrimSpace(in.SerialNumber)
	if serial == "" {
		serial = generatedSerial()
	}
	now := time.Now()
	asset := &entity.Asset{
		ID:            uuid.New().String(),
		SerialNumber:  serial,
		ProductID:     in.ProductID,
		Condition:     condition,
		ProcessStatus: entity.ProcessAvailable,
		WarehouseID:   in.WarehouseID,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.RunLedger(ctx, func(
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
		assetRepo repository.AssetRepository,
	) error {
		return registerAsset(ctx, assetRepo, asset, userID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, ports.Event{
		Type:     ports.EventAssetRegistered,
		Entity:   "asset",
		EntityID: asset.ID,
		Message:  fmt.Sprintf("activo %s registrado en %s", asset.SerialNumber, inventory.LocationLabel(asset.WarehouseID, asset.StoreID)),
	})
	out := toAssetResponse(asset)
	return &out, nil
}

// Get obtiene un activo por ID.
func (uc *AssetUseCase) Get(ctx context.Context, id string) (*dto.AssetResponse, error) {
	a, err := uc.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	out := toAssetResponse(a)
	return &out, nil
}

// History devuelve la bitácora del activo en orden cronológico.
func (uc *AssetUseCase) History(ctx context.Context, id string) ([]dto.AssetHistoryResponse, error) {
	a, err := uc.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.assetRepo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssetHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, toHistoryResponse(h))
	}
	return out, nil
}

// Uninstall devuelve un activo INSTALLED a AVAILABLE en la bodega indicada (o sin ubicación).
// Requiere confirmación explícita del llamador.
func (uc *AssetUseCase) Uninstall(ctx context.Context, userID, id string, in dto.UninstallAssetRequest) (*dto.AssetResponse, error) {
	if !in.Confirm {
		return nil, domain.ErrConfirmationRequired
	}
	if in.WarehouseID != nil {
		w, err := uc.warehouseRepo.GetByID(ctx, *in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("%w: bodega", domain.ErrNotFound)
		}
	}

	var (
		asset     *entity.Asset
		prevStore string
	)
	now := time.Now()
	err := uc.txRunner.RunLedger(ctx, func(
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
		assetRepo repository.AssetRepository,
	) error {
		var err error
		asset, err = assetRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if asset == nil {
			return domain.ErrNotFound
		}
		if asset.StoreID != nil {
			prevStore = *asset.StoreID
		}
		if err := inventory.Uninstall(asset, in.WarehouseID); err != nil {
			return err
		}
		asset.UpdatedAt = now
		if err := assetRepo.Update(ctx, asset); err != nil {
			return err
		}
		desc := fmt.Sprintf("desinstalado de tienda %s", prevStore)
		return assetRepo.AppendHistory(ctx, inventory.NewHistory(asset, entity.AssetActionUninstalled, desc, userID, now))
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, ports.Event{
		Type:       ports.EventAssetUninstalled,
		Entity:     "asset",
		EntityID:   asset.ID,
		Message:    fmt.Sprintf("activo %s desinstalado de tienda %s", asset.SerialNumber, prevStore),
		Attributes: map[string]string{"store_id": prevStore},
	})
	out := toAssetResponse(asset)
	return &out, nil
}

// Replace reemplaza un activo instalado en una sola transacción: el viejo queda AVAILABLE sin ubicación
// con la condición indicada; el nuevo (existente AVAILABLE o registrado en el momento) queda INSTALLED
// en la tienda del viejo. Se aplican ambas mitades o ninguna.
func (uc *AssetUseCase) Replace(ctx context.Context, userID, id string, in dto.ReplaceAssetRequest) (*dto.ReplaceAssetResponse, error) {
	condition, err := inventory.ParseCondition(in.Condition)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var oldAsset, newAsset *entity.Asset
	now := time.Now()
	err = uc.txRunner.RunLedger(ctx, func(
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
		assetRepo repository.AssetRepository,
	) error {
		var err error
		oldAsset, err = assetRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if oldAsset == nil {
			return domain.ErrNotFound
		}
		if oldAsset.ProcessStatus != entity.ProcessInstalled || oldAsset.StoreID == nil {
			return fmt.Errorf("%w: solo se reemplazan activos instalados", domain.ErrInvalidTransition)
		}
		storeID := *oldAsset.StoreID

		newAsset, err = uc.resolveReplacement(ctx, assetRepo, oldAsset, in.NewSerialNumber, userID, now)
		if err != nil {
			return err
		}

		oldAsset.Condition = condition
		oldAsset.ProcessStatus = entity.ProcessAvailable
		oldAsset.StoreID = nil
		oldAsset.WarehouseID = nil
		oldAsset.Notes = appendNote(oldAsset.Notes, "reemplazado: "+reason)
		oldAsset.UpdatedAt = now
		if err := assetRepo.Update(ctx, oldAsset); err != nil {
			return err
		}
		desc := fmt.Sprintf("reemplazado por %s en tienda %s: %s", newAsset.SerialNumber, storeID, reason)
		if err := assetRepo.AppendHistory(ctx, inventory.NewHistory(oldAsset, entity.AssetActionReplaced, desc, userID, now)); err != nil {
			return err
		}

		newAsset.ProcessStatus = entity.ProcessInstalled
		newAsset.WarehouseID = nil
		newAsset.StoreID = &storeID
		newAsset.UpdatedAt = now
		if err := assetRepo.Update(ctx, newAsset); err != nil {
			return err
		}
		desc = fmt.Sprintf("instalado en tienda %s reemplazando %s", storeID, oldAsset.SerialNumber)
		return assetRepo.AppendHistory(ctx, inventory.NewHistory(newAsset, entity.AssetActionInstalled, desc, userID, now))
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, ports.Event{
		Type:       ports.EventAssetReplaced,
		Entity:     "asset",
		EntityID:   oldAsset.ID,
		Message:    fmt.Sprintf("activo %s reemplazado por %s", oldAsset.SerialNumber, newAsset.SerialNumber),
		Attributes: map[string]string{"new_asset_id": newAsset.ID},
	})
	return &dto.ReplaceAssetResponse{Old: toAssetResponse(oldAsset), New: toAssetResponse(newAsset)}, nil
}

// resolveReplacement bloquea el activo AVAILABLE con ese serial o registra uno nuevo del mismo producto.
func (uc *AssetUseCase) resolveReplacement(
	ctx context.Context,
	assetRepo repository.AssetRepository,
	old *entity.Asset,
	serial, userID string,
	now time.Time,
) (*entity.Asset, error) {
	serial = strings.TrimSpace(serial)
	if serial != "" {
		existing, err := assetRepo.GetBySerial(ctx, serial)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.ID == old.ID {
				return nil, fmt.Errorf("%w: el reemplazo no puede ser el mismo activo", domain.ErrInvalidInput)
			}
			locked, err := assetRepo.GetForUpdate(ctx, existing.ID)
			if err != nil {
				return nil, err
			}
			if locked.ProcessStatus != entity.ProcessAvailable || locked.StoreID != nil {
				return nil, domain.ErrAssetNotAvailable
			}
			return locked, nil
		}
	} else {
		serial = generatedSerial()
	}
	a := &entity.Asset{
		ID:            uuid.New().String(),
		SerialNumber:  serial,
		ProductID:     old.ProductID,
		Condition:     entity.ConditionNew,
		ProcessStatus: entity.ProcessAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := registerAsset(ctx, assetRepo, a, userID, now); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateCondition cambia la condición física; no depende del estado del flujo.
func (uc *AssetUseCase) UpdateCondition(ctx context.Context, userID, id string, in dto.UpdateConditionRequest) (*dto.AssetResponse, error) {
	condition, err := inventory.ParseCondition(in.Condition)
	if err != nil {
		return nil, err
	}
	var (
		asset *entity.Asset
		prev  entity.AssetCondition
	)
	now := time.Now()
	err = uc.txRunner.RunLedger(ctx, func(
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
		assetRepo repository.AssetRepository,
	) error {
		var err error
		asset, err = assetRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if asset == nil {
			return domain.ErrNotFound
		}
		prev = asset.Condition
		asset.Condition = condition
		if note := strings.TrimSpace(in.Note); note != "" {
			asset.Notes = appendNote(asset.Notes, note)
		}
		asset.UpdatedAt = now
		if err := assetRepo.Update(ctx, asset); err != nil {
			return err
		}
		desc := fmt.Sprintf("condición %s -> %s", prev, condition)
		if in.Note != "" {
			desc += ": " + in.Note
		}
		return assetRepo.AppendHistory(ctx, inventory.NewHistory(asset, entity.AssetActionCondition, desc, userID, now))
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, ports.Event{
		Type:     ports.EventAssetCondition,
		Entity:   "asset",
		EntityID: asset.ID,
		Message:  fmt.Sprintf("activo %s: condición %s -> %s", asset.SerialNumber, prev, condition),
	})
	out := toAssetResponse(asset)
	return &out, nil
}

func (uc *AssetUseCase) publish(ctx context.Context, events ...ports.Event) {
	ports.Publish(ctx, uc.notifier, events, func(e ports.Event, err error) {
		uc.log.Warn().Err(err).Str("event", e.Type).Msg("no se pudo publicar el evento")
	})
}

func registerAsset(ctx context.Context, assetRepo repository.AssetRepository, a *entity.Asset, userID string, now time.Time) error {
	existing, err := assetRepo.GetBySerial(ctx, a.SerialNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: serial %s", domain.ErrDuplicate, a.SerialNumber)
	}
	if err := assetRepo.Create(ctx, a); err != nil {
		return err
	}
	desc := fmt.Sprintf("registrado en %s", inventory.LocationLabel(a.WarehouseID, a.StoreID))
	return assetRepo.AppendHistory(ctx, inventory.NewHistory(a, entity.AssetActionRegistered, desc, userID, now))
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
