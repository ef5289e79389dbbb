package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento del libro de stock.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, stock_item_id, product_id, warehouse_id, type, quantity, unit_cost, reference, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.StockItemID, movement.ProductID, movement.WarehouseID,
		movement.Type, movement.Quantity, movement.UnitCost, movement.Reference, movement.Reason,
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return translate("create inventory movement", err)
	}
	return nil
}

// ListByStockItem lista los movimientos de una posición en orden cronológico; limit <= 0 devuelve todos.
func (r *InventoryMovementRepo) ListByStockItem(ctx context.Context, stockItemID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, stock_item_id, product_id, warehouse_id, type, quantity, unit_cost, reference, reason, created_at, created_by
		FROM inventory_movements WHERE stock_item_id = $1
		ORDER BY created_at, id`
	args := []any{stockItemID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list movements", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(
			&m.ID, &m.StockItemID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity,
			&m.UnitCost, &m.Reference, &m.Reason, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, translate("scan movement", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
