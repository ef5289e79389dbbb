package entity

import "time"

// Warehouse representa una bodega donde se almacena stock y equipos.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store representa una tienda (punto de venta) destino de envíos e instalaciones.
type Store struct {
	ID        string
	Code      string
	Name      string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
