package receiving

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// de recepción y del libro de stock atados a esa tx.
type TxRunner interface {
	RunReceiving(ctx context.Context, fn func(
		sessionRepo repository.ReceivingRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
