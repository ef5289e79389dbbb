package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del libro de stock, su diario y el registro de activos.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
		assetRepo repository.AssetRepository,
	) error) error
}
