package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ receiving.TxRunner = (*TxRunner)(nil)
	_ shipping.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn y hace Commit; cualquier error (o ctx cancelado) hace Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLedger ejecuta fn con los repositorios de stock, movimientos y activos atados a la tx.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
	assetRepo repository.AssetRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewStockRepository(tx), NewInventoryMovementRepository(tx), NewAssetRepository(tx))
	})
}

// RunReceiving ejecuta fn con los repositorios de recepción y del libro atados a la tx (commit de sesión).
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	sessionRepo repository.ReceivingRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewReceivingRepository(tx), NewStockRepository(tx), NewInventoryMovementRepository(tx))
	})
}

// RunShipping ejecuta fn con los repositorios de envíos, entregas y activos atados a la tx.
func (r *TxRunner) RunShipping(ctx context.Context, fn func(
	shipmentRepo repository.ShipmentRepository,
	deliveryRepo repository.DeliveryRepository,
	assetRepo repository.AssetRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewShipmentRepository(tx), NewDeliveryRepository(tx), NewAssetRepository(tx))
	})
}
