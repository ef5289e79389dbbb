package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
)

// StockRepo libro de stock en memoria.
type StockRepo struct{ a access }

func (r *StockRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	_ = r.a.with(func(st *state) error {
		if s, ok := st.stock[id]; ok {
			out = &s
		}
		return nil
	})
	return out, nil
}

func (r *StockRepo) GetByProductAndWarehouse(_ context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	var out *entity.StockItem
	_ = r.a.with(func(st *state) error {
		if s, ok := findStock(st, productID, warehouseID); ok {
			out = &s
		}
		return nil
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: el mutex del almacén ya serializa la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRepo) Increment(_ context.Context, productID, warehouseID string, quantity int, minQuantity *int) (*entity.StockItem, error) {
	var out entity.StockItem
	_ = r.a.with(func(st *state) error {
		now := time.Now()
		s, ok := findStock(st, productID, warehouseID)
		if !ok {
			s = entity.StockItem{
				ID:          uuid.New().String(),
				ProductID:   productID,
				WarehouseID: warehouseID,
				CreatedAt:   now,
			}
		}
		s.Quantity += quantity
		if minQuantity != nil {
			s.MinQuantity = *minQuantity
		}
		s.UpdatedAt = now
		st.stock[s.ID] = s
		out = s
		return nil
	})
	return &out, nil
}

func (r *StockRepo) Adjust(_ context.Context, id string, delta int) (*entity.StockItem, error) {
	var out *entity.StockItem
	_ = r.a.with(func(st *state) error {
		s, ok := st.stock[id]
		if !ok {
			return nil
		}
		s.Quantity += delta
		s.UpdatedAt = time.Now()
		st.stock[id] = s
		out = &s
		return nil
	})
	return out, nil
}

func (r *StockRepo) Update(_ context.Context, item *entity.StockItem) error {
	return r.a.with(func(st *state) error {
		s, ok := st.stock[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		s.Reserved = item.Reserved
		s.MinQuantity = item.MinQuantity
		s.UpdatedAt = item.UpdatedAt
		st.stock[item.ID] = s
		return nil
	})
}

func (r *StockRepo) Delete(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.stock[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.stock, id)
		return nil
	})
}

func (r *StockRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error) {
	return r.list(func(s entity.StockItem) bool { return s.WarehouseID == warehouseID }, limit, offset), nil
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockItem, error) {
	return r.list(func(s entity.StockItem) bool { return s.ProductID == productID }, 0, 0), nil
}

func (r *StockRepo) list(match func(entity.StockItem) bool, limit, offset int) []*entity.StockItem {
	out := []*entity.StockItem{}
	_ = r.a.with(func(st *state) error {
		all := sortedValues(st.stock, func(a, b entity.StockItem) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
		filtered := make([]entity.StockItem, 0, len(all))
		for _, s := range all {
			if match(s) {
				filtered = append(filtered, s)
			}
		}
		for _, s := range page(filtered, limit, offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out
}

func findStock(st *state, productID, warehouseID string) (entity.StockItem, bool) {
	for _, s := range st.stock {
		if s.ProductID == productID && s.WarehouseID == warehouseID {
			return s, true
		}
	}
	return entity.StockItem{}, false
}

// MovementRepo diario de movimientos en memoria.
type MovementRepo struct{ a access }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.a.with(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) ListByStockItem(_ context.Context, stockItemID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	_ = r.a.with(func(st *state) error {
		var filtered []entity.InventoryMovement
		for _, m := range st.movements {
			if m.StockItemID == stockItemID {
				filtered = append(filtered, m)
			}
		}
		for _, m := range page(filtered, limit, offset) {
			m := m
			out = append(out, &m)
		}
		return nil
	})
	return out, nil
}
