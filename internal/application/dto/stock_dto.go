package dto

import "time"

// CreateStockRequest body para POST /api/stock (alta o incremento).
type CreateStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=0"`
	MinQuantity *int   `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
}

// AdjustStockRequest body para POST /api/stock/:id/adjust. Delta con signo, distinto de cero.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

// UpdateStockRequest body para PATCH /api/stock/:id. Campos nil no se modifican.
type UpdateStockRequest struct {
	MinQuantity *int `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	Reserved    *int `json:"reserved,omitempty" validate:"omitempty,min=0"`
}

// IssueStockRequest body para POST /api/stock/issue (salida a tienda con activos virtuales).
type IssueStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	StoreID     string `json:"store_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1,max=500"`
}

// StockResponse salida de una posición del libro con sus valores derivados.
type StockResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	WarehouseID  string    `json:"warehouse_id"`
	Quantity     int       `json:"quantity"`
	Reserved     int       `json:"reserved"`
	MinQuantity  int       `json:"min_quantity"`
	Available    int       `json:"available"`
	Low          bool      `json:"low"`
	Out          bool      `json:"out"`
	OverReserved bool      `json:"over_reserved,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdjustStockResponse salida del ajuste; NegativeStock es advertencia, no error.
type AdjustStockResponse struct {
	Stock         StockResponse `json:"stock"`
	NegativeStock bool          `json:"negative_stock"`
	Warning       string        `json:"warning,omitempty"`
}

// StockListResponse lista paginada de posiciones.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AvailabilityResponse disponible para prometer de un producto.
type AvailabilityResponse struct {
	ProductID       string `json:"product_id"`
	StockAvailable  int    `json:"stock_available"`
	AssetsAvailable int    `json:"assets_available"`
	Total           int    `json:"total"`
}

// IssueStockResponse salida de POST /api/stock/issue.
type IssueStockResponse struct {
	Stock         StockResponse   `json:"stock"`
	Assets        []AssetResponse `json:"assets"`
	NegativeStock bool            `json:"negative_stock"`
}

// LowStockItem posición bajo umbral con su faltante y prioridad (1 = más urgente).
type LowStockItem struct {
	StockResponse
	Shortfall int `json:"shortfall"`
	Priority  int `json:"priority"`
}
