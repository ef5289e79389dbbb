package inventory

import "github.com/jhoicas/warehouse-ops/internal/domain/entity"

// IsLow indica si la posición está en o por debajo del umbral: available <= minQuantity.
func IsLow(s *entity.StockItem) bool {
	return s.Available() <= s.MinQuantity
}

// IsOut indica si no queda stock en mano.
func IsOut(s *entity.StockItem) bool {
	return s.Quantity == 0
}

// GoesNegative indica si aplicar delta deja quantity o available por debajo de cero.
// El libro lo permite; los flujos por defecto deben advertirlo.
func GoesNegative(s *entity.StockItem, delta int) bool {
	q := s.Quantity + delta
	return q < 0 || q-s.Reserved < 0
}

// OverReserved indica reservas por encima del stock en mano.
func OverReserved(s *entity.StockItem) bool {
	return s.Reserved > s.Quantity
}
