package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.StoreRepository     = (*StoreRepo)(nil)
)

// ProductRepo consulta del catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, category, created_at, updated_at`

func (r *ProductRepo) get(ctx context.Context, op, query string, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return &p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.get(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.get(ctx, "get product by sku", `SELECT `+productColumns+` FROM products WHERE lower(sku) = lower($1)`, sku)
}

// WarehouseRepo consulta de bodegas sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT id, name, address, created_at, updated_at FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, id).Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get warehouse", err)
	}
	return &w, nil
}

// List lista bodegas por nombre con paginación.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM warehouses ORDER BY name
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translate("list warehouses", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, translate("scan warehouse", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// StoreRepo consulta de tiendas sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT id, code, name, address, city, created_at, updated_at FROM stores WHERE id = $1`
	var s entity.Store
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get store", err)
	}
	return &s, nil
}

// List lista tiendas por código con paginación.
func (r *StoreRepo) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	query := `
		SELECT id, code, name, address, city, created_at, updated_at
		FROM stores ORDER BY code
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translate("list stores", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, translate("scan store", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
