package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, product_id, warehouse_id, quantity, reserved, min_quantity, created_at, updated_at`

func scanStock(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.Reserved, &s.MinQuantity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.StockItem, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return s, nil
}

// GetByID obtiene una posición por ID.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE id = $1`
	return r.getOne(ctx, "get stock", query, id)
}

// GetByProductAndWarehouse obtiene la posición de un producto en una bodega.
func (r *StockRepo) GetByProductAndWarehouse(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	if !validID(productID, warehouseID) {
		return nil, nil
	}
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE product_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, "get stock by product", query, productID, warehouseID)
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, "get stock for update", query, id)
}

// Increment inserta la posición o suma quantity a la existente en una sola sentencia.
// minQuantity nil conserva el umbral vigente (0 al crear).
func (r *StockRepo) Increment(ctx context.Context, productID, warehouseID string, quantity int, minQuantity *int) (*entity.StockItem, error) {
	query := `
		INSERT INTO stock_items (id, product_id, warehouse_id, quantity, reserved, min_quantity, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, 0, COALESCE($4::int, 0), now(), now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock_items.quantity + EXCLUDED.quantity,
		              min_quantity = COALESCE($4::int, stock_items.min_quantity),
		              updated_at = now()
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID, quantity, minQuantity))
	if err != nil {
		return nil, translate("increment stock", err)
	}
	return s, nil
}

// Adjust aplica quantity = quantity + delta. Devuelve (nil, nil) si la fila no existe.
func (r *StockRepo) Adjust(ctx context.Context, id string, delta int) (*entity.StockItem, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		UPDATE stock_items SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + stockColumns
	return r.getOne(ctx, "adjust stock", query, id, delta)
}

// Update sobrescribe reserved y min_quantity.
func (r *StockRepo) Update(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items SET reserved = $2, min_quantity = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, item.ID, item.Reserved, item.MinQuantity, item.UpdatedAt)
	if err != nil {
		return translate("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la posición.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return translate("delete stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWarehouse lista las posiciones de una bodega; limit <= 0 devuelve todas.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE warehouse_id = $1 ORDER BY created_at, id`
	args := []any{warehouseID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	return r.list(ctx, "list stock by warehouse", query, args...)
}

// ListByProduct lista las posiciones de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE product_id = $1 ORDER BY created_at, id`
	return r.list(ctx, "list stock by product", query, productID)
}

func (r *StockRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, translate(op+" scan", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
