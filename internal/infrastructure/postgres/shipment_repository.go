package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var (
	_ repository.ShipmentRepository = (*ShipmentRepo)(nil)
	_ repository.DeliveryRepository = (*DeliveryRepo)(nil)
)

// ShipmentRepo envíos y sus líneas sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const (
	shipmentColumns     = `id, request_id, warehouse_id, store_id, status, shipped_at, created_by, created_at, updated_at`
	shipmentItemColumns = `id, shipment_id, asset_id, picked, picked_at, created_at`
)

func scanShipmentItem(row pgx.Row) (*entity.ShipmentItem, error) {
	var it entity.ShipmentItem
	if err := row.Scan(&it.ID, &it.ShipmentID, &it.AssetID, &it.Picked, &it.PickedAt, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste la cabecera del envío.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	query := `INSERT INTO shipments (` + shipmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.RequestID, s.WarehouseID, s.StoreID, s.Status, s.ShippedAt, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return translate("insert shipment", err)
	}
	return nil
}

// GetByID carga el envío con sus líneas.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.load(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

// GetForUpdate carga el envío bloqueando la cabecera.
func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.load(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

func (r *ShipmentRepo) load(ctx context.Context, query, id string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.RequestID, &s.WarehouseID, &s.StoreID, &s.Status, &s.ShippedAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get shipment", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+shipmentItemColumns+` FROM shipment_items WHERE shipment_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, translate("list shipment items", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanShipmentItem(rows)
		if err != nil {
			return nil, translate("scan shipment item", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list shipment items", err)
	}
	return &s, nil
}

// Update sobrescribe estado y fecha de despacho.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	query := `UPDATE shipments SET status = $2, shipped_at = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Status, s.ShippedAt, s.UpdatedAt)
	if err != nil {
		return translate("update shipment", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddItem persiste una línea; el mismo activo dos veces en un envío devuelve ErrDuplicate.
func (r *ShipmentRepo) AddItem(ctx context.Context, it *entity.ShipmentItem) error {
	query := `INSERT INTO shipment_items (` + shipmentItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, it.ID, it.ShipmentID, it.AssetID, it.Picked, it.PickedAt, it.CreatedAt)
	return translate("insert shipment item", err)
}

// GetItem obtiene una línea por ID.
func (r *ShipmentRepo) GetItem(ctx context.Context, id string) (*entity.ShipmentItem, error) {
	if !validID(id) {
		return nil, nil
	}
	it, err := scanShipmentItem(r.q.QueryRow(ctx, `SELECT `+shipmentItemColumns+` FROM shipment_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get shipment item", err)
	}
	return it, nil
}

// UpdateItem registra el picking de la línea.
func (r *ShipmentRepo) UpdateItem(ctx context.Context, it *entity.ShipmentItem) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shipment_items SET picked = $2, picked_at = $3 WHERE id = $1`, it.ID, it.Picked, it.PickedAt)
	if err != nil {
		return translate("update shipment item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina una línea.
func (r *ShipmentRepo) DeleteItem(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shipment_items WHERE id = $1`, id)
	if err != nil {
		return translate("delete shipment item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeliveryRepo entregas sobre PostgreSQL (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

const deliveryColumns = `id, shipment_id, status, courier_name, courier_phone, tracking_number, problem_note, picked_up_at, delivered_at, created_at, updated_at`

func (r *DeliveryRepo) getOne(ctx context.Context, op, query, arg string) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&d.ID, &d.ShipmentID, &d.Status, &d.CourierName, &d.CourierPhone, &d.TrackingNumber,
		&d.ProblemNote, &d.PickedUpAt, &d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return &d, nil
}

// Create persiste la entrega; una segunda entrega para el mismo envío devuelve ErrDuplicate.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	query := `INSERT INTO deliveries (` + deliveryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.ShipmentID, d.Status, d.CourierName, d.CourierPhone, d.TrackingNumber,
		d.ProblemNote, d.PickedUpAt, d.DeliveredAt, d.CreatedAt, d.UpdatedAt,
	)
	return translate("insert delivery", err)
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get delivery", `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
}

// GetByShipment obtiene la entrega de un envío.
func (r *DeliveryRepo) GetByShipment(ctx context.Context, shipmentID string) (*entity.Delivery, error) {
	if !validID(shipmentID) {
		return nil, nil
	}
	return r.getOne(ctx, "get delivery by shipment", `SELECT `+deliveryColumns+` FROM deliveries WHERE shipment_id = $1`, shipmentID)
}

// GetForUpdate obtiene la entrega y bloquea la fila.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get delivery for update", `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id)
}

// Update sobrescribe estado, mensajero y marcas de tiempo.
func (r *DeliveryRepo) Update(ctx context.Context, d *entity.Delivery) error {
	query := `
		UPDATE deliveries SET status = $2, courier_name = $3, courier_phone = $4, tracking_number = $5,
		       problem_note = $6, picked_up_at = $7, delivered_at = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		d.ID, d.Status, d.CourierName, d.CourierPhone, d.TrackingNumber, d.ProblemNote, d.PickedUpAt, d.DeliveredAt, d.UpdatedAt,
	)
	if err != nil {
		return translate("update delivery", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
