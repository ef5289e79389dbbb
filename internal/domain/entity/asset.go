package entity

import "time"

// AssetCondition es el estado físico del equipo (informativo).
type AssetCondition string

const (
	ConditionNew            AssetCondition = "NEW"
	ConditionGood           AssetCondition = "GOOD"
	ConditionFair           AssetCondition = "FAIR"
	ConditionRepair         AssetCondition = "REPAIR"
	ConditionBroken         AssetCondition = "BROKEN"
	ConditionDecommissioned AssetCondition = "DECOMMISSIONED"
)

// ProcessStatus es la etapa del flujo en la que se encuentra el equipo.
type ProcessStatus string

const (
	ProcessAvailable ProcessStatus = "AVAILABLE"
	ProcessReserved  ProcessStatus = "RESERVED"
	ProcessInTransit ProcessStatus = "IN_TRANSIT"
	ProcessDelivered ProcessStatus = "DELIVERED"
	ProcessInstalled ProcessStatus = "INSTALLED"
)

// Asset representa una unidad física con número de serie.
// Condition y ProcessStatus son ortogonales; solo ProcessStatus se valida en transiciones.
type Asset struct {
	ID            string
	SerialNumber  string
	ProductID     string
	Condition     AssetCondition
	ProcessStatus ProcessStatus
	WarehouseID   *string
	StoreID       *string
	Virtual       bool // creado por una salida de stock sin unidad física previa
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Acciones registradas en el historial de un activo.
const (
	AssetActionRegistered  = "REGISTERED"
	AssetActionReserved    = "RESERVED"
	AssetActionReleased    = "RELEASED"
	AssetActionShipped     = "SHIPPED"
	AssetActionDelivered   = "DELIVERED"
	AssetActionInstalled   = "INSTALLED"
	AssetActionUninstalled = "UNINSTALLED"
	AssetActionReplaced    = "REPLACED"
	AssetActionCondition   = "CONDITION_CHANGED"
)

// AssetHistory es un registro inmutable de la bitácora de un activo.
type AssetHistory struct {
	ID          string
	AssetID     string
	Action      string
	Description string
	Location    string
	WarehouseID *string
	StoreID     *string
	CreatedBy   string
	CreatedAt   time.Time
}
