package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// StockRepository define el puerto del libro de stock por (producto, bodega).
// Las lecturas devuelven (nil, nil) cuando la fila no existe.
type StockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	// Increment inserta la fila o suma quantity a la existente. minQuantity nil conserva el umbral actual.
	Increment(ctx context.Context, productID, warehouseID string, quantity int, minQuantity *int) (*entity.StockItem, error)
	// Adjust aplica un delta con signo en una sola sentencia (quantity = quantity + delta).
	Adjust(ctx context.Context, id string, delta int) (*entity.StockItem, error)
	// Update sobrescribe reserved y min_quantity.
	Update(ctx context.Context, item *entity.StockItem) error
	Delete(ctx context.Context, id string) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error)
}

// InventoryMovementRepository persiste el diario de movimientos del libro.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByStockItem(ctx context.Context, stockItemID string, limit, offset int) ([]*entity.InventoryMovement, error)
}
