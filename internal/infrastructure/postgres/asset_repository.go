package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implementación del registro de activos sobre PostgreSQL (usable con pool o tx).
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

const assetColumns = `id, serial_number, product_id, condition, process_status, warehouse_id, store_id, virtual, notes, created_at, updated_at`

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(
		&a.ID, &a.SerialNumber, &a.ProductID, &a.Condition, &a.ProcessStatus,
		&a.WarehouseID, &a.StoreID, &a.Virtual, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.Asset, error) {
	a, err := scanAsset(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return a, nil
}

// Create persiste un activo. Serial repetido devuelve ErrDuplicate.
func (r *AssetRepo) Create(ctx context.Context, asset *entity.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		asset.ID, asset.SerialNumber, asset.ProductID, asset.Condition, asset.ProcessStatus,
		asset.WarehouseID, asset.StoreID, asset.Virtual, asset.Notes, asset.CreatedAt, asset.UpdatedAt,
	)
	return translate("insert asset "+asset.SerialNumber, err)
}

// GetByID obtiene un activo por ID.
func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get asset", `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
}

// GetBySerial obtiene un activo por número de serie.
func (r *AssetRepo) GetBySerial(ctx context.Context, serial string) (*entity.Asset, error) {
	return r.getOne(ctx, "get asset by serial", `SELECT `+assetColumns+` FROM assets WHERE serial_number = $1`, serial)
}

// GetForUpdate obtiene el activo y bloquea la fila.
func (r *AssetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Asset, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get asset for update", `SELECT `+assetColumns+` FROM assets WHERE id = $1 FOR UPDATE`, id)
}

// Update sobrescribe condición, estado, ubicación y notas.
func (r *AssetRepo) Update(ctx context.Context, asset *entity.Asset) error {
	query := `
		UPDATE assets SET condition = $2, process_status = $3, warehouse_id = $4, store_id = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		asset.ID, asset.Condition, asset.ProcessStatus, asset.WarehouseID, asset.StoreID, asset.Notes, asset.UpdatedAt,
	)
	if err != nil {
		return translate("update asset", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TransitionByShipment mueve en una sentencia los activos del envío que estén en from.
func (r *AssetRepo) TransitionByShipment(ctx context.Context, shipmentID string, from, to entity.ProcessStatus, loc repository.Location) ([]*entity.Asset, error) {
	query := `
		UPDATE assets SET process_status = $3, warehouse_id = $4, store_id = $5, updated_at = now()
		WHERE id IN (SELECT asset_id FROM shipment_items WHERE shipment_id = $1)
		  AND process_status = $2
		RETURNING ` + assetColumns
	rows, err := r.q.Query(ctx, query, shipmentID, from, to, loc.WarehouseID, loc.StoreID)
	if err != nil {
		return nil, translate("transition assets", err)
	}
	defer rows.Close()
	var list []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, translate("scan asset", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountAvailableByProduct cuenta los activos AVAILABLE sin tienda de un producto.
func (r *AssetRepo) CountAvailableByProduct(ctx context.Context, productID string) (int, error) {
	query := `SELECT count(*) FROM assets WHERE product_id = $1 AND process_status = $2 AND store_id IS NULL`
	var n int
	if err := r.q.QueryRow(ctx, query, productID, entity.ProcessAvailable).Scan(&n); err != nil {
		return 0, translate("count available assets", err)
	}
	return n, nil
}

// AppendHistory agrega un registro inmutable a la bitácora.
func (r *AssetRepo) AppendHistory(ctx context.Context, h *entity.AssetHistory) error {
	query := `
		INSERT INTO asset_history (id, asset_id, action, description, location, warehouse_id, store_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.AssetID, h.Action, h.Description, h.Location, h.WarehouseID, h.StoreID, h.CreatedBy, h.CreatedAt,
	)
	if err != nil {
		return translate("insert asset history", err)
	}
	return nil
}

// ListHistory devuelve la bitácora del activo en orden de inserción.
func (r *AssetRepo) ListHistory(ctx context.Context, assetID string) ([]*entity.AssetHistory, error) {
	query := `
		SELECT id, asset_id, action, description, location, warehouse_id, store_id, created_by, created_at
		FROM asset_history WHERE asset_id = $1
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, assetID)
	if err != nil {
		return nil, translate("list asset history", err)
	}
	defer rows.Close()
	var list []*entity.AssetHistory
	for rows.Next() {
		var h entity.AssetHistory
		if err := rows.Scan(
			&h.ID, &h.AssetID, &h.Action, &h.Description, &h.Location,
			&h.WarehouseID, &h.StoreID, &h.CreatedBy, &h.CreatedAt,
		); err != nil {
			return nil, translate("scan asset history", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
