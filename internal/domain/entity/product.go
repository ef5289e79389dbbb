package entity

import "time"

// Product representa una entrada del catálogo (solo lectura para el núcleo de inventario).
type Product struct {
	ID        string
	SKU       string // único
	Name      string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
