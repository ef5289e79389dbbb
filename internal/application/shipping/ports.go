package shipping

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// de envíos, entregas y activos atados a esa tx.
type TxRunner interface {
	RunShipping(ctx context.Context, fn func(
		shipmentRepo repository.ShipmentRepository,
		deliveryRepo repository.DeliveryRepository,
		assetRepo repository.AssetRepository,
	) error) error
}
