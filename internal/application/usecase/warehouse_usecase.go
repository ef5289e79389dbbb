package usecase

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

// WarehouseUseCase consultas del directorio de bodegas y tiendas (solo lectura).
type WarehouseUseCase struct {
	warehouses repository.WarehouseRepository
	stores     repository.StoreRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(warehouses repository.WarehouseRepository, stores repository.StoreRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouses: warehouses, stores: stores}
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(w), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.Normalize()
	list, err := uc.warehouses.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page, len(items)),
	}, nil
}

// GetStore obtiene una tienda por ID.
func (uc *WarehouseUseCase) GetStore(ctx context.Context, id string) (*dto.StoreResponse, error) {
	s, err := uc.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toStoreResponse(s), nil
}

// ListStores lista tiendas con paginación.
func (uc *WarehouseUseCase) ListStores(ctx context.Context, page dto.PageRequest) (*dto.StoreListResponse, error) {
	page.Normalize()
	list, err := uc.stores.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStoreResponse(s))
	}
	return &dto.StoreListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page, len(items)),
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
