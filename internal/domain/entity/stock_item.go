package entity

import "time"

// StockItem es la fila del libro de stock para un par (producto, bodega).
// Quantity puede quedar negativa: el libro no la limita, lo decide la regla de negocio.
type StockItem struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int // en mano
	Reserved    int // comprometido a envíos
	MinQuantity int // umbral de reposición
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available devuelve quantity - reserved.
func (s *StockItem) Available() int {
	return s.Quantity - s.Reserved
}
