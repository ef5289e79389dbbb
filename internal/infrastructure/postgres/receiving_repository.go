package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

var _ repository.ReceivingRepository = (*ReceivingRepo)(nil)

// ReceivingRepo sesiones de recepción, líneas y escaneos sobre PostgreSQL (usable con pool o tx).
type ReceivingRepo struct {
	q Querier
}

// NewReceivingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivingRepository(q Querier) *ReceivingRepo {
	return &ReceivingRepo{q: q}
}

const (
	sessionColumns = `id, warehouse_id, status, invoice_number, supplier, created_by, completed_at, created_at, updated_at`
	itemColumns    = `id, session_id, position, name, sku, product_id, expected_quantity, unit_cost, created_at`
	scanColumns    = `id, item_id, seq, quantity, is_manual, code, operator_id, created_at`
)

func scanItem(row pgx.Row) (*entity.ReceivingItem, error) {
	var it entity.ReceivingItem
	err := row.Scan(&it.ID, &it.SessionID, &it.Position, &it.Name, &it.SKU, &it.ProductID,
		&it.ExpectedQuantity, &it.UnitCost, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanScan(row pgx.Row) (*entity.Scan, error) {
	var s entity.Scan
	err := row.Scan(&s.ID, &s.ItemID, &s.Seq, &s.Quantity, &s.IsManual, &s.Code, &s.OperatorID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession persiste la cabecera de la sesión.
func (r *ReceivingRepo) CreateSession(ctx context.Context, session *entity.ReceivingSession) error {
	query := `INSERT INTO receiving_sessions (` + sessionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		session.ID, session.WarehouseID, session.Status, session.InvoiceNumber, session.Supplier,
		session.CreatedBy, session.CompletedAt, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return translate("insert receiving session", err)
	}
	return nil
}

// GetSession carga la sesión con sus líneas (por posición) y escaneos (por llegada).
func (r *ReceivingRepo) GetSession(ctx context.Context, id string) (*entity.ReceivingSession, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.loadSession(ctx, `SELECT `+sessionColumns+` FROM receiving_sessions WHERE id = $1`, id)
}

// GetSessionForUpdate igual que GetSession pero bloquea la cabecera.
func (r *ReceivingRepo) GetSessionForUpdate(ctx context.Context, id string) (*entity.ReceivingSession, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.loadSession(ctx, `SELECT `+sessionColumns+` FROM receiving_sessions WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceivingRepo) loadSession(ctx context.Context, query, id string) (*entity.ReceivingSession, error) {
	var s entity.ReceivingSession
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.WarehouseID, &s.Status, &s.InvoiceNumber, &s.Supplier,
		&s.CreatedBy, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get receiving session", err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM receiving_items WHERE session_id = $1 ORDER BY position, created_at`, id)
	if err != nil {
		return nil, translate("list receiving items", err)
	}
	byID := make(map[string]*entity.ReceivingItem)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, translate("scan receiving item", err)
		}
		s.Items = append(s.Items, it)
		byID[it.ID] = it
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, translate("list receiving items", err)
	}

	scanQuery := `
		SELECT s.id, s.item_id, s.seq, s.quantity, s.is_manual, s.code, s.operator_id, s.created_at
		FROM receiving_scans s
		JOIN receiving_items i ON i.id = s.item_id
		WHERE i.session_id = $1
		ORDER BY s.item_id, s.created_at, s.seq`
	rows, err = r.q.Query(ctx, scanQuery, id)
	if err != nil {
		return nil, translate("list receiving scans", err)
	}
	defer rows.Close()
	for rows.Next() {
		sc, err := scanScan(rows)
		if err != nil {
			return nil, translate("scan receiving scan", err)
		}
		if it, ok := byID[sc.ItemID]; ok {
			it.Scans = append(it.Scans, sc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list receiving scans", err)
	}
	return &s, nil
}

// UpdateSessionStatus cambia el estado y, al completar, la fecha de cierre.
func (r *ReceivingRepo) UpdateSessionStatus(ctx context.Context, id, status string, completedAt *time.Time) error {
	query := `
		UPDATE receiving_sessions SET status = $2, completed_at = $3, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, status, completedAt)
	if err != nil {
		return translate("update receiving session", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteSession elimina la sesión; líneas y escaneos caen por ON DELETE CASCADE.
func (r *ReceivingRepo) DeleteSession(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM receiving_sessions WHERE id = $1`, id)
	if err != nil {
		return translate("delete receiving session", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddItem persiste una línea esperada.
func (r *ReceivingRepo) AddItem(ctx context.Context, item *entity.ReceivingItem) error {
	query := `INSERT INTO receiving_items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SessionID, item.Position, item.Name, item.SKU, item.ProductID,
		item.ExpectedQuantity, item.UnitCost, item.CreatedAt,
	)
	if err != nil {
		return translate("insert receiving item", err)
	}
	return nil
}

// GetItem obtiene una línea sin sus escaneos.
func (r *ReceivingRepo) GetItem(ctx context.Context, id string) (*entity.ReceivingItem, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getItem(ctx, `SELECT `+itemColumns+` FROM receiving_items WHERE id = $1`, id)
}

// GetItemForUpdate obtiene la línea y la bloquea.
func (r *ReceivingRepo) GetItemForUpdate(ctx context.Context, id string) (*entity.ReceivingItem, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getItem(ctx, `SELECT `+itemColumns+` FROM receiving_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceivingRepo) getItem(ctx context.Context, query, id string) (*entity.ReceivingItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get receiving item", err)
	}
	return it, nil
}

// UpdateItemProduct asocia la línea a un producto.
func (r *ReceivingRepo) UpdateItemProduct(ctx context.Context, itemID, productID string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE receiving_items SET product_id = $2 WHERE id = $1`, itemID, productID)
	if err != nil {
		return translate("map receiving item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendScan agrega un escaneo; la secuencia la asigna la base.
func (r *ReceivingRepo) AppendScan(ctx context.Context, scan *entity.Scan) error {
	query := `
		INSERT INTO receiving_scans (id, item_id, quantity, is_manual, code, operator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		scan.ID, scan.ItemID, scan.Quantity, scan.IsManual, scan.Code, scan.OperatorID, scan.CreatedAt,
	).Scan(&scan.Seq)
	if err != nil {
		return translate("insert receiving scan", err)
	}
	return nil
}

// GetScan obtiene un escaneo por ID.
func (r *ReceivingRepo) GetScan(ctx context.Context, id string) (*entity.Scan, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanScan(r.q.QueryRow(ctx, `SELECT `+scanColumns+` FROM receiving_scans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get receiving scan", err)
	}
	return s, nil
}

// DeleteScan elimina un escaneo.
func (r *ReceivingRepo) DeleteScan(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM receiving_scans WHERE id = $1`, id)
	if err != nil {
		return translate("delete receiving scan", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
