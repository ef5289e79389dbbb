package dto

import "time"

// RegisterAssetRequest body para POST /api/assets. Serial vacío = se genera.
type RegisterAssetRequest struct {
	SerialNumber string  `json:"serial_number" validate:"max=100"`
	ProductID    string  `json:"product_id" validate:"required"`
	Condition    string  `json:"condition"`
	WarehouseID  *string `json:"warehouse_id,omitempty"`
	Notes        string  `json:"notes" validate:"max=1000"`
}

// UninstallAssetRequest body para POST /api/assets/:id/uninstall.
type UninstallAssetRequest struct {
	WarehouseID *string `json:"warehouse_id,omitempty"`
	Confirm     bool    `json:"confirm"`
}

// ReplaceAssetRequest body para POST /api/assets/:id/replace.
type ReplaceAssetRequest struct {
	NewSerialNumber string `json:"new_serial_number" validate:"max=100"`
	Condition       string `json:"condition" validate:"required"`
	Reason          string `json:"reason" validate:"required,max=500"`
}

// UpdateConditionRequest body para PATCH /api/assets/:id/condition.
type UpdateConditionRequest struct {
	Condition string `json:"condition" validate:"required"`
	Note      string `json:"note" validate:"max=500"`
}

// AssetResponse salida de un activo.
type AssetResponse struct {
	ID            string    `json:"id"`
	SerialNumber  string    `json:"serial_number"`
	ProductID     string    `json:"product_id"`
	Condition     string    `json:"condition"`
	ProcessStatus string    `json:"process_status"`
	WarehouseID   *string   `json:"warehouse_id"`
	StoreID       *string   `json:"store_id"`
	Location      string    `json:"location"`
	Virtual       bool      `json:"virtual"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReplaceAssetResponse ambas mitades del reemplazo.
type ReplaceAssetResponse struct {
	Old AssetResponse `json:"old"`
	New AssetResponse `json:"new"`
}

// AssetHistoryResponse registro de la bitácora de un activo.
type AssetHistoryResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	WarehouseID *string   `json:"warehouse_id,omitempty"`
	StoreID     *string   `json:"store_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
