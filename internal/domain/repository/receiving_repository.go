package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
)

// ReceivingRepository define el puerto de sesiones de recepción, sus líneas y escaneos.
// GetSession y GetSessionForUpdate cargan líneas y escaneos en orden.
type ReceivingRepository interface {
	CreateSession(ctx context.Context, session *entity.ReceivingSession) error
	GetSession(ctx context.Context, id string) (*entity.ReceivingSession, error)
	GetSessionForUpdate(ctx context.Context, id string) (*entity.ReceivingSession, error)
	UpdateSessionStatus(ctx context.Context, id, status string, completedAt *time.Time) error
	// DeleteSession elimina la sesión con sus líneas y escaneos.
	DeleteSession(ctx context.Context, id string) error

	AddItem(ctx context.Context, item *entity.ReceivingItem) error
	GetItem(ctx context.Context, id string) (*entity.ReceivingItem, error)
	// GetItemForUpdate bloquea la línea para serializar escaneos concurrentes.
	GetItemForUpdate(ctx context.Context, id string) (*entity.ReceivingItem, error)
	UpdateItemProduct(ctx context.Context, itemID, productID string) error

	AppendScan(ctx context.Context, scan *entity.Scan) error
	GetScan(ctx context.Context, id string) (*entity.Scan, error)
	DeleteScan(ctx context.Context, id string) error
}
