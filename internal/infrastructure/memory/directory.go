package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.StoreRepository     = (*StoreRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ a access }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	_ = r.a.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, nil
}

// GetBySKU compara sin distinguir mayúsculas, igual que el índice lower(sku) en PostgreSQL.
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	_ = r.a.with(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, nil
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ a access }

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	_ = r.a.with(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, nil
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	_ = r.a.with(func(st *state) error {
		all := sortedValues(st.warehouses, func(a, b entity.Warehouse) bool { return a.Name < b.Name })
		for _, w := range page(all, limit, offset) {
			w := w
			out = append(out, &w)
		}
		return nil
	})
	return out, nil
}

// StoreRepo tiendas en memoria.
type StoreRepo struct{ a access }

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	_ = r.a.with(func(st *state) error {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
		return nil
	})
	return out, nil
}

func (r *StoreRepo) List(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	_ = r.a.with(func(st *state) error {
		all := sortedValues(st.stores, func(a, b entity.Store) bool { return a.Code < b.Code })
		for _, s := range page(all, limit, offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, nil
}
