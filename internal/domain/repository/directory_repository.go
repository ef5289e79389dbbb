package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// ProductRepository es el puerto de consulta del catálogo (solo lectura).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}

// WarehouseRepository es el puerto de consulta de bodegas.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}

// StoreRepository es el puerto de consulta de tiendas.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
}
